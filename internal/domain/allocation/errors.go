package allocation

import (
	"errors"
	"fmt"
)

// ErrNoCandidateAvailable is the sentinel kind for unfillable role slots.
var ErrNoCandidateAvailable = errors.New("no candidate available")

// NoCandidateError identifies the role and song that could not be staffed.
type NoCandidateError struct {
	Role string
	Song string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("%s for role %q in song %q", ErrNoCandidateAvailable, e.Role, e.Song)
}

// Is matches ErrNoCandidateAvailable.
func (e *NoCandidateError) Is(target error) bool {
	return target == ErrNoCandidateAvailable
}
