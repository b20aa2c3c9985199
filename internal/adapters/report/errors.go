package report

import "errors"

// ErrExport is returned when a report cannot be written.
var ErrExport = errors.New("export report failed")
