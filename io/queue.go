package io

// Queue is an in-memory FIFO of values.
//
// Values sent to the queue are appended, and Receive consumes them in order.
// Rewind makes every value available to Receive again.
type Queue struct {
	Values []int

	readIndex int
}

var _ Channel = (*Queue)(nil)

// Reset discards all values.
func (qc *Queue) Reset() {
	qc.Values = nil
	qc.readIndex = 0
}

// Rewind restarts reception at the first value.
func (qc *Queue) Rewind() {
	qc.readIndex = 0
}

// Pending returns the number of values not yet received.
func (qc *Queue) Pending() int {
	return len(qc.Values) - qc.readIndex
}

// Receive returns the next unreceived value.
func (qc *Queue) Receive() (value int, err error) {
	if qc.Pending() <= 0 {
		err = ErrInputEnd
		return
	}

	value = qc.Values[qc.readIndex]
	qc.readIndex++

	return
}

// Send appends a value to the queue.
func (qc *Queue) Send(value int) (err error) {
	qc.Values = append(qc.Values, value)
	return
}
