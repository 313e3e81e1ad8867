package share

import "errors"

var (
	// ErrOverflow indicates Put on a full Queue. The queue is left unchanged.
	ErrOverflow = errors.New("queue overflow")
	// ErrUnderflow indicates Get or Peek on an empty Queue.
	ErrUnderflow = errors.New("queue underflow")
)
