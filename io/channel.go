// Package io provides the I/O channels that feed the INP instruction and
// collect the OUT instruction of the Little Man Computer.
//
// Channels transfer whole decimal values: a Tape reads and writes text
// streams, one value per line, and a Queue holds values in memory.
package io

// Channel defines the interface for all I/O channels.
type Channel interface {
	// Rewind resets the channel to its initial state, if possible.
	Rewind()
	// Receive returns the next value from the channel.
	Receive() (value int, err error)
	// Send writes a single value to the channel.
	Send(value int) error
}
