package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/sinfonia/internal/adapters/report"
	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/contract"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/internal/domain/types"
	"github.com/okian/sinfonia/pkg/logger"
	"github.com/okian/sinfonia/pkg/metrics"
)

// Training outcomes recorded in metrics.
const (
	trainingOK           = "trained"
	trainingAlreadyHired = "already_hired"
	trainingNoOp         = "no_op"
	trainingNotFound     = "not_found"
)

func recordHires(ks []*contract.Contract) {
	for _, k := range ks {
		metrics.RecordContractCreated(k.Price())
	}
}

// SongDeficit returns the unmet roles of one song.
func (s *Service) SongDeficit(ctx context.Context, id, title string) (map[string]int, error) {
	var out map[string]int
	err := s.do(ctx, id, func(c *concert.Concert) error {
		sg, err := c.Song(title)
		if err != nil {
			return err
		}
		out = c.Deficit(sg)
		return nil
	})
	return out, err
}

// ShowDeficit returns the unmet roles across the setlist.
func (s *Service) ShowDeficit(ctx context.Context, id string) (map[string]int, error) {
	var out map[string]int
	err := s.do(ctx, id, func(c *concert.Concert) error {
		out = c.DeficitTotal()
		return nil
	})
	return out, err
}

// HireSong staffs one song. When a slot cannot be filled the contracts
// created before it are returned together with the error.
func (s *Service) HireSong(ctx context.Context, id, title string) ([]types.Contract, error) {
	var hired []*contract.Contract
	err := s.do(ctx, id, func(c *concert.Concert) error {
		sg, err := c.Song(title)
		if err != nil {
			return err
		}
		hired, err = c.HireForSong(sg)
		return err
	})
	recordHires(hired)

	switch {
	case errors.Is(err, allocation.ErrNoCandidateAvailable):
		metrics.RecordSongHire(metrics.OutcomeFailed)
		s.logger.Warn(ctx, "song left incomplete",
			logger.String("session", id),
			logger.String("song", title),
			logger.Int("hired", len(hired)),
			logger.Error(err),
		)
	case err != nil:
		return nil, err
	default:
		metrics.RecordSongHire(metrics.OutcomeComplete)
		s.logger.Info(ctx, "song staffed",
			logger.String("session", id),
			logger.String("song", title),
			logger.Int("hired", len(hired)),
		)
	}
	return types.FromContracts(hired), err
}

// HireShow staffs every incomplete song. Unfillable songs are reported in
// the result, not as an error.
func (s *Service) HireShow(ctx context.Context, id string) (types.ShowResult, error) {
	var sum allocation.ShowSummary
	err := s.do(ctx, id, func(c *concert.Concert) error {
		sum = c.HireForShow()
		return nil
	})
	if err != nil {
		return types.ShowResult{}, err
	}

	recordHires(sum.Hired)
	metrics.RecordSongHires(metrics.OutcomeComplete, sum.Processed)
	metrics.RecordSongHires(metrics.OutcomeFailed, sum.Failed)
	metrics.RecordSongHires(metrics.OutcomeSkipped, sum.Skipped)

	res := types.ShowResult{
		Processed: sum.Processed,
		Failed:    sum.Failed,
		Skipped:   sum.Skipped,
		Spent:     sum.Spent,
		Hired:     types.FromContracts(sum.Hired),
	}
	for _, f := range sum.Failures {
		res.Failures = append(res.Failures, f.Error())
	}
	s.logger.Info(ctx, "show staffed",
		logger.String("session", id),
		logger.Int("processed", res.Processed),
		logger.Int("failed", res.Failed),
		logger.Int("skipped", res.Skipped),
		logger.Float64("spent", res.Spent),
	)
	return res, nil
}

// Train teaches a candidate a new role.
func (s *Service) Train(ctx context.Context, id, name, role string) error {
	err := s.do(ctx, id, func(c *concert.Concert) error {
		return c.TrainPerformer(name, role)
	})
	switch {
	case err == nil:
		metrics.RecordTraining(trainingOK)
		s.logger.Info(ctx, "performer trained",
			logger.String("session", id),
			logger.String("performer", name),
			logger.String("role", role),
		)
	case errors.Is(err, performer.ErrAlreadyHired):
		metrics.RecordTraining(trainingAlreadyHired)
	case errors.Is(err, performer.ErrTrainingNoOp):
		metrics.RecordTraining(trainingNoOp)
	case errors.Is(err, concert.ErrNotFound):
		metrics.RecordTraining(trainingNotFound)
	}
	return err
}

// RemoveContract drops one contract by ID.
func (s *Service) RemoveContract(ctx context.Context, id, contractID string) (types.Contract, error) {
	var removed *contract.Contract
	err := s.do(ctx, id, func(c *concert.Concert) error {
		var err error
		removed, err = c.RemoveContractByID(contractID)
		return err
	})
	if err != nil {
		return types.Contract{}, err
	}
	metrics.RecordContractRemovals(1)
	s.logger.Info(ctx, "contract removed",
		logger.String("session", id),
		logger.String("contract", contractID),
	)
	return types.FromContract(removed), nil
}

// RemoveAllContracts drops every contract held by the named candidate.
func (s *Service) RemoveAllContracts(ctx context.Context, id, name string) (int, error) {
	var n int
	err := s.do(ctx, id, func(c *concert.Concert) error {
		p, err := c.Candidate(name)
		if err != nil {
			return err
		}
		n = c.RemoveAllContractsOf(p)
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordContractRemovals(n)
	s.logger.Info(ctx, "contracts removed",
		logger.String("session", id),
		logger.String("performer", name),
		logger.Int("removed", n),
	)
	return n, nil
}

// Contracts lists the hires of a session with the total cost.
func (s *Service) Contracts(ctx context.Context, id string) (types.Hired, error) {
	var out types.Hired
	err := s.do(ctx, id, func(c *concert.Concert) error {
		all := c.Contracts()
		out.Contracts = make([]types.HiredContract, 0, len(all))
		for _, k := range all {
			out.Contracts = append(out.Contracts, types.HiredContract{
				Contract:      types.FromContract(k),
				SongsAssigned: c.SongsAssigned(k.Performer()),
			})
		}
		out.TotalCost = c.TotalCost()
		return nil
	})
	return out, err
}

// Report snapshots the session for export.
func (s *Service) Report(ctx context.Context, id string) (report.Report, error) {
	var out report.Report
	err := s.do(ctx, id, func(c *concert.Concert) error {
		out = report.Build(c)
		return nil
	})
	return out, err
}

// ExportReport writes the session's report to path as JSON or YAML.
func (s *Service) ExportReport(ctx context.Context, id, path string) error {
	r, err := s.Report(ctx, id)
	if err != nil {
		return err
	}
	if err := report.Save(path, r); err != nil {
		metrics.RecordErrorByComponent("service", "export")
		s.logger.Error(ctx, "report export failed",
			logger.String("session", id),
			logger.String("path", path),
			logger.Error(err),
		)
		return err
	}
	s.logger.Info(ctx, "report exported",
		logger.String("session", id),
		logger.String("path", path),
	)
	return nil
}

// Trainings asks the solver for the minimum number of trainings that would
// remove every deficit without hiring, priced at the configured unit cost.
func (s *Service) Trainings(ctx context.Context, id string) (types.TrainingEstimate, error) {
	if s.solverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.solverTimeout)
		defer cancel()
	}

	var est concert.TrainingEstimate
	sv := s.evaluator()
	start := time.Now()
	err := s.do(ctx, id, func(c *concert.Concert) error {
		var err error
		est, err = c.TrainingCost(ctx, sv, s.unitCost)
		return err
	})
	metrics.RecordSolverLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if errors.Is(err, training.ErrSolverFailure) {
			metrics.RecordSolverError()
			s.logger.Error(ctx, "training estimate failed",
				logger.String("session", id),
				logger.Error(err),
			)
		}
		return types.TrainingEstimate{}, err
	}
	return types.TrainingEstimate{
		Trainings: est.Trainings,
		UnitCost:  est.UnitCost,
		Cost:      est.Cost,
	}, nil
}
