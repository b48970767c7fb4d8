package io

import (
	"errors"

	"github.com/ezrec/lmc/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrInputEnd = errors.New(f("end of input"))
)

// ErrInputInvalid is an input that is not a decimal value.
type ErrInputInvalid string

func (err ErrInputInvalid) Error() string {
	return f("'%v' is not a number", string(err))
}
