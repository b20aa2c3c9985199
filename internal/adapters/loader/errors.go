package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrLoad          = errors.New("load roster failed")
	ErrUnknownFormat = errors.New("unknown file format")
)
