// Package config defines service configuration and how it is loaded.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ArtistsPath, HouseNamesPath and SetlistPath locate the roster files a
	// new session is loaded from (JSON or YAML by extension).
	ArtistsPath    string `koanf:"artists_path"`
	HouseNamesPath string `koanf:"house_names_path"`
	SetlistPath    string `koanf:"setlist_path"`

	// ReportPath is where the planning CLI exports the allocation report.
	ReportPath string `koanf:"report_path"`

	// TrainingUnitCost prices one training in the training estimate.
	TrainingUnitCost float64 `koanf:"training_unit_cost"`

	// MaxSessions bounds open sessions; zero means unbounded.
	MaxSessions int `koanf:"max_sessions"`

	// SessionIdleTTL evicts sessions unused for this long; zero keeps them.
	SessionIdleTTL time.Duration `koanf:"session_idle_ttl"`

	// SolverTimeout bounds one training solver evaluation.
	SolverTimeout time.Duration `koanf:"solver_timeout"`

	// SolverWorkers is the number of concurrent solver evaluations; zero
	// runs the solver on the caller's goroutine.
	SolverWorkers int `koanf:"solver_workers"`

	// SolverQueue bounds evaluations waiting for a solver worker.
	SolverQueue int `koanf:"solver_queue"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ArtistsPath:      "data/artists.json",
		HouseNamesPath:   "data/house-artists.json",
		SetlistPath:      "data/setlist.json",
		ReportPath:       "report.json",
		TrainingUnitCost: 50,
		MaxSessions:      64,
		SessionIdleTTL:   30 * time.Minute,
		SolverTimeout:    5 * time.Second,
		SolverWorkers:    4,
		SolverQueue:      64,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.TrainingUnitCost < 0:
		return invalid("training_unit_cost must not be negative")
	case c.MaxSessions < 0:
		return invalid("max_sessions must not be negative")
	case c.SessionIdleTTL < 0:
		return invalid("session_idle_ttl must not be negative")
	case c.SolverTimeout < 0:
		return invalid("solver_timeout must not be negative")
	case c.SolverWorkers < 0:
		return invalid("solver_workers must not be negative")
	case c.SolverQueue < 1:
		return invalid("solver_queue must be positive")
	}
	return nil
}
