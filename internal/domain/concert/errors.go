package concert

import "errors"

// Sentinel kinds for lookups on the aggregate.
var (
	ErrNotFound         = errors.New("candidate not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrContractNotFound = errors.New("contract not found")
)
