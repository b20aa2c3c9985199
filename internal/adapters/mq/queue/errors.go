package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrFull   = errors.New("solver queue full")
	ErrClosed = errors.New("solver queue closed")
)
