package training

import "errors"

// ErrSolverFailure is returned when a solver produced no usable answer.
var ErrSolverFailure = errors.New("training solver failed")
