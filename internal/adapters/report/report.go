// Package report renders a concert's staffing state for export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/sinfonia/internal/domain/concert"
)

// Assignment is one contract as seen in the report.
type Assignment struct {
	Artist    string  `json:"artist" yaml:"artist"`
	Role      string  `json:"role" yaml:"role"`
	PricePaid float64 `json:"price_paid" yaml:"price_paid"`
}

// Song is one setlist entry as seen in the report.
type Song struct {
	Title    string         `json:"title" yaml:"title"`
	Complete bool           `json:"complete" yaml:"complete"`
	Missing  map[string]int `json:"missing,omitempty" yaml:"missing,omitempty"`
	Assigned []Assignment   `json:"assigned" yaml:"assigned"`
}

// Report is the exported allocation state.
type Report struct {
	TotalCost float64 `json:"total_cost" yaml:"total_cost"`
	Songs     []Song  `json:"songs" yaml:"songs"`
}

// Build snapshots c.
func Build(c *concert.Concert) Report {
	st := c.Status()
	r := Report{
		TotalCost: st.TotalCost,
		Songs:     make([]Song, 0, len(st.Songs)),
	}
	for _, ss := range st.Songs {
		s := Song{
			Title:    ss.Title,
			Complete: ss.Complete,
			Assigned: make([]Assignment, 0, len(ss.Contracts)),
		}
		if !ss.Complete {
			s.Missing = ss.Deficit.Clone()
		}
		for _, k := range ss.Contracts {
			s.Assigned = append(s.Assigned, Assignment{
				Artist:    k.Performer().Name(),
				Role:      k.Role(),
				PricePaid: k.Price(),
			})
		}
		r.Songs = append(r.Songs, s)
	}
	return r
}

// Format selects the encoding of Encode.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", ErrExport, filepath.Ext(path))
	}
}

// Encode writes r to w.
func Encode(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
	default:
		return fmt.Errorf("%w: unknown format %q", ErrExport, f)
	}
	return nil
}

// WriteFile exports c to path, picking the format from its extension.
func WriteFile(path string, c *concert.Concert) error {
	return Save(path, Build(c))
}

// Save writes r to path, picking the format from its extension.
func Save(path string, r Report) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := Encode(out, r, f); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
