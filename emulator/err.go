package emulator

import (
	"errors"

	"github.com/ezrec/lmc/translate"
)

var f = translate.From

var (
	ErrProgramMissing    = errors.New(f("program missing"))
	ErrCycleLimit        = errors.New(f("cycle limit exceeded"))
	ErrBreakpointMissing = errors.New(f("breakpoint not set"))
	ErrCaseFormat        = errors.New(f("unknown case file format"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrCaseKey is an unknown key in a case file.
type ErrCaseKey string

func (err ErrCaseKey) Error() string {
	return f("unknown case key '%v'", string(err))
}
