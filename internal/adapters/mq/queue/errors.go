package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
	ErrBadJob = errors.New("job needs a kind and a tournament id")
)
