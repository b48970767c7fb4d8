package debugger

import (
	"errors"

	"github.com/ezrec/lmc/translate"
)

var f = translate.From

var (
	ErrAborted       = errors.New(f("aborted before halt"))
	ErrArgumentCount = errors.New(f("wrong number of arguments"))
)

// ErrCommand is an unknown debugger command.
type ErrCommand string

func (err ErrCommand) Error() string {
	return f("unknown command '%v'", string(err))
}
