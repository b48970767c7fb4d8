package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tape provides sequential I/O of decimal values over text streams.
// It wraps an io.Reader for input and io.Writer for output, one value
// per line in each direction.
type Tape struct {
	Input  io.Reader
	Output io.Writer
	Prompt string // If set, written to Output before each read.

	scanner *bufio.Scanner
	reader  io.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Receive reads the next line from the input stream as a decimal value.
func (tc *Tape) Receive() (value int, err error) {
	if tc.Input == nil {
		err = ErrInputEnd
		return
	}

	if tc.scanner == nil || tc.reader != tc.Input {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.reader = tc.Input
	}

	if len(tc.Prompt) != 0 && tc.Output != nil {
		fmt.Fprint(tc.Output, tc.Prompt)
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = ErrInputEnd
		}
		return
	}

	text := strings.TrimSpace(tc.scanner.Text())
	value, err = strconv.Atoi(text)
	if err != nil {
		err = ErrInputInvalid(text)
		return
	}

	return
}

// Send writes a value to the output stream, followed by a newline.
func (tc *Tape) Send(value int) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)

	return
}
