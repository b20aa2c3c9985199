package performer

import "errors"

// Sentinel kinds for training errors.
var (
	ErrAlreadyHired = errors.New("performer already hired")
	ErrTrainingNoOp = errors.New("performer already plays role")
)
