// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/lmc/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrInputMissing = errors.New(f("input missing"))
	ErrInputExtra   = errors.New(f("excessive inputs"))
	ErrAddressRange = errors.New(f("address out of range"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrMnemonicInvalid = errors.New(f("mnemonic invalid"))
	ErrTokenCount      = errors.New(f("wrong number of tokens"))
	ErrOperandRange    = errors.New(f("operand out of range"))
	ErrProgramSize     = errors.New(f("program exceeds memory"))
)

// ErrLabelMissing is an unresolved label reference.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode is a word that failed to execute.
type ErrOpcode Word

func (eo ErrOpcode) Error() string {
	return f("bad opcode %03d %v", int(eo), Word(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax locates an assembly fault in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
