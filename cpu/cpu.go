// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"OP_HLT": fmt.Sprintf("%d", OP_HLT),
	"OP_ADD": fmt.Sprintf("%d", OP_ADD),
	"OP_SUB": fmt.Sprintf("%d", OP_SUB),
	"OP_STA": fmt.Sprintf("%d", OP_STA),
	"OP_LDA": fmt.Sprintf("%d", OP_LDA),
	"OP_BRA": fmt.Sprintf("%d", OP_BRA),
	"OP_BRZ": fmt.Sprintf("%d", OP_BRZ),
	"OP_BRP": fmt.Sprintf("%d", OP_BRP),
	"OP_IO":  fmt.Sprintf("%d", OP_IO),
	"IO_INP": fmt.Sprintf("%d", IO_INP),
	"IO_OUT": fmt.Sprintf("%d", IO_OUT),
}

// Signal reports the externally visible effect of a cycle.
type Signal int

//go:generate go tool stringer -linecomment -type=Signal
const (
	SIGNAL_CONTINUE = Signal(0) // continue
	SIGNAL_HALT     = Signal(1) // halt
	SIGNAL_INPUT    = Signal(2) // input
	SIGNAL_OUTPUT   = Signal(3) // output
)

// Cpu is the execution engine of the Little Man Computer.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory [MEMORY_SIZE]Word // Memory, owned by this Cpu.
	Label  map[string]int    // Symbol table, for introspection only.

	Pc  int  // Program counter.
	Ip  int  // Address of the last executed instruction.
	Ir  Word // Last executed instruction.
	Acc Word // Accumulator.
	Neg bool // Negative flag, set by a subtraction below zero.

	Inbox  []Word // History of input values.
	Outbox []Word // History of output values.

	Ticks int // Executed cycles counter.

	image  [MEMORY_SIZE]Word
	halted bool
}

// NewCpu creates a new CPU from a memory image and an optional symbol table.
// Both are copied; the CPU never aliases the caller's storage.
func NewCpu(memory [MEMORY_SIZE]Word, label map[string]int) (cpu *Cpu) {
	cpu = &Cpu{
		image: memory,
		Label: make(map[string]int, len(label)),
	}
	maps.Copy(cpu.Label, label)

	cpu.Reset()

	return
}

// NewCpuFromProgram creates a new CPU running an assembled program.
func NewCpuFromProgram(prog *Program) *Cpu {
	return NewCpu(prog.Memory, prog.Label)
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Restores memory from the loaded image.
// - Clears the registers, flag, and I/O history.
// - Zeros the cycle counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory = cpu.image
	cpu.Pc = 0
	cpu.Ip = 0
	cpu.Ir = 0
	cpu.Acc = 0
	cpu.Neg = false
	cpu.Inbox = nil
	cpu.Outbox = nil
	cpu.Ticks = 0
	cpu.halted = false
}

// Halted returns true once a HLT instruction has executed.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// NeedsInput returns true if the instruction at the program counter is INP.
func (cpu *Cpu) NeedsInput() bool {
	return cpu.Memory[cpu.Pc] == MakeWord(OP_IO, IO_INP)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "ip", "ir", "acc", "neg"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02d", cpu.Pc)
		case "ip":
			strval = fmt.Sprintf("%02d", cpu.Ip)
		case "ir":
			strval = fmt.Sprintf("%03d %v", cpu.Ir, cpu.Ir)
		case "acc":
			strval = fmt.Sprintf("%03d", cpu.Acc)
		case "neg":
			strval = "false"
			if cpu.Neg {
				strval = "true"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// clamp saturates a value into the range of a word.
// Values below zero saturate to zero and report a negative result.
func clamp(n int) (value Word, neg bool) {
	switch {
	case n > WORD_MAX:
		value = WORD_MAX
	case n < 0:
		value = 0
		neg = true
	default:
		value = Word(n)
	}

	return
}

// Cycle executes a single instruction.
//
// An input value must be supplied when the instruction is INP, and is
// ignored otherwise. A cycle that fails leaves the CPU state unchanged.
// Once halted, Cycle does nothing and returns SIGNAL_HALT.
func (cpu *Cpu) Cycle(input ...int) (signal Signal, err error) {
	if cpu.halted {
		signal = SIGNAL_HALT
		return
	}

	if len(input) > 1 {
		err = ErrInputExtra
		return
	}

	ir := cpu.Memory[cpu.Pc]

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ir), err)
		}
	}()

	if !ir.Valid() {
		err = ErrOpcodeDecode
		return
	}

	if ir == MakeWord(OP_IO, IO_INP) && len(input) == 0 {
		err = ErrInputMissing
		return
	}

	if cpu.Verbose {
		log.Printf("%02d: %03d %v", cpu.Pc, ir, ir)
	}

	cpu.Ir = ir
	cpu.Ip = cpu.Pc
	cpu.Pc = (cpu.Pc + 1) % MEMORY_SIZE
	cpu.Ticks++

	operand := ir.Operand()

	switch ir.Opcode() {
	case OP_ADD:
		cpu.Acc, _ = clamp(int(cpu.Acc) + int(cpu.Memory[operand]))
		cpu.Neg = false
	case OP_SUB:
		cpu.Acc, cpu.Neg = clamp(int(cpu.Acc) - int(cpu.Memory[operand]))
	case OP_STA:
		cpu.Memory[operand] = cpu.Acc
		cpu.Neg = false
	case OP_LDA:
		cpu.Acc = cpu.Memory[operand]
	case OP_BRA:
		cpu.Pc = operand
	case OP_BRZ:
		if !cpu.Neg && cpu.Acc == 0 {
			cpu.Pc = operand
		}
	case OP_BRP:
		if !cpu.Neg {
			cpu.Pc = operand
		}
	case OP_IO:
		switch operand {
		case IO_INP:
			cpu.Acc, _ = clamp(input[0])
			cpu.Neg = false
			cpu.Inbox = append(cpu.Inbox, cpu.Acc)
			signal = SIGNAL_INPUT
		case IO_OUT:
			cpu.Outbox = append(cpu.Outbox, cpu.Acc)
			signal = SIGNAL_OUTPUT
		}
	case OP_HLT:
		cpu.halted = true
		signal = SIGNAL_HALT
	}

	return
}
