// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

const (
	MEMORY_SIZE = 100 // Words of memory.
	WORD_MAX    = 999 // Largest value held by a word.
	OPERAND_MAX = 99  // Largest operand address.
)

// Word is a single memory cell, holding 0 through WORD_MAX.
type Word uint16

// Opcode is the hundreds digit of an instruction word.
type Opcode int

//go:generate go tool stringer -type=Opcode -trimprefix=OP_
const (
	OP_HLT = Opcode(0) // Halt.
	OP_ADD = Opcode(1) // Add memory to accumulator.
	OP_SUB = Opcode(2) // Subtract memory from accumulator.
	OP_STA = Opcode(3) // Store accumulator.
	OP_LDA = Opcode(5) // Load accumulator.
	OP_BRA = Opcode(6) // Branch always.
	OP_BRZ = Opcode(7) // Branch if zero.
	OP_BRP = Opcode(8) // Branch if positive.
	OP_IO  = Opcode(9) // Input or output, selected by the operand.
)

// IO operand selectors.
const (
	IO_INP = 1 // Input to accumulator.
	IO_OUT = 2 // Output from accumulator.
)

// MakeWord creates an instruction word from an opcode and operand.
func MakeWord(op Opcode, operand int) Word {
	return Word(int(op)*100 + operand)
}

// Opcode returns the opcode of the word, interpreted as an instruction.
func (w Word) Opcode() Opcode {
	return Opcode(w / 100)
}

// Operand returns the operand address of the word, interpreted as an instruction.
func (w Word) Operand() int {
	return int(w % 100)
}

// Valid returns true if the word decodes to a defined instruction.
func (w Word) Valid() bool {
	switch w.Opcode() {
	case OP_HLT, OP_ADD, OP_SUB, OP_STA, OP_LDA, OP_BRA, OP_BRZ, OP_BRP:
		return true
	case OP_IO:
		return w.Operand() == IO_INP || w.Operand() == IO_OUT
	}

	return false
}

// String returns the assembly language representation of the word.
// Words that are not instructions are shown as data.
func (w Word) String() (out string) {
	op := w.Opcode()
	switch {
	case !w.Valid():
		out = fmt.Sprintf("DAT %d", int(w))
	case w == 0:
		out = "HLT"
	case op == OP_HLT:
		out = fmt.Sprintf("DAT %d", int(w))
	case w == MakeWord(OP_IO, IO_INP):
		out = "INP"
	case w == MakeWord(OP_IO, IO_OUT):
		out = "OUT"
	default:
		out = fmt.Sprintf("%v %02d", op, w.Operand())
	}

	return
}

// mnemonicMap maps mnemonics to their base encoding.
var mnemonicMap = map[string]Word{
	"ADD": MakeWord(OP_ADD, 0),
	"SUB": MakeWord(OP_SUB, 0),
	"STA": MakeWord(OP_STA, 0),
	"LDA": MakeWord(OP_LDA, 0),
	"BRA": MakeWord(OP_BRA, 0),
	"BRZ": MakeWord(OP_BRZ, 0),
	"BRP": MakeWord(OP_BRP, 0),
	"INP": MakeWord(OP_IO, IO_INP),
	"OUT": MakeWord(OP_IO, IO_OUT),
	"HLT": MakeWord(OP_HLT, 0),
	"COB": MakeWord(OP_HLT, 0),
	"DAT": 0,
}

// Lookup returns the base encoding of a mnemonic.
func Lookup(mnemonic string) (base Word, ok bool) {
	base, ok = mnemonicMap[mnemonic]
	return
}
