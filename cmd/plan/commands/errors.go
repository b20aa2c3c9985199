package commands

import (
	"errors"
	"fmt"

	"github.com/okian/sinfonia/internal/adapters/report"
	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/internal/printer"
)

// explain turns a service error into printed guidance.
func explain(p *printer.Printer, err error) error {
	var nc *allocation.NoCandidateError
	switch {
	case errors.Is(err, concert.ErrSongNotFound):
		return p.Error("Song not found", err.Error(), []string{"Run `plan status` to list the setlist."})
	case errors.Is(err, concert.ErrNotFound):
		return p.Error("Candidate not found", err.Error(), []string{"Only external artists can be trained or released."})
	case errors.Is(err, performer.ErrAlreadyHired):
		return p.Error("Candidate already hired", err.Error(), []string{"Train before hiring; a hired artist keeps the roles they had."})
	case errors.Is(err, performer.ErrTrainingNoOp):
		return p.Error("Nothing to train", err.Error(), nil)
	case errors.As(err, &nc):
		return p.Error("Song cannot be fully staffed", err.Error(), []string{
			fmt.Sprintf("Train a candidate with --train NAME=%q.", nc.Role),
			"Add a candidate who plays the role to the artists file.",
		})
	case errors.Is(err, training.ErrSolverFailure):
		return p.Error("Training estimate failed", err.Error(), nil)
	case errors.Is(err, report.ErrExport):
		return p.Error("Export failed", err.Error(), []string{"Check that the report directory exists and is writable."})
	default:
		return p.Error("Operation failed", err.Error(), nil)
	}
}
