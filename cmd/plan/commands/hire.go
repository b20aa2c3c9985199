package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/types"
)

type hireFlags struct {
	train   []string
	release []string
	export  bool
}

func newHireCommand(g *globals) *cobra.Command {
	f := &hireFlags{}
	cmd := &cobra.Command{
		Use:   "hire [SONG]",
		Short: "Hire external artists for one song or the whole show",
		Long: `Hires the cheapest available external artists for every role the house
artists cannot cover.

Without arguments, every incomplete song is staffed in setlist order and
songs that cannot be completed are reported. With a SONG title, only that
song is staffed.

Trainings given with --train run before hiring. Artists named with
--release lose all their contracts after hiring.

Examples:
  plan hire
  plan hire "Under Pressure"
  plan hire --train "David Bowie=synthesizer" --export
  plan hire --release "Elton John"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHire(cmd.Context(), g, f, args)
		},
	}
	cmd.Flags().StringArrayVar(&f.train, "train", nil, "Train a candidate before hiring, as NAME=ROLE (repeatable)")
	cmd.Flags().StringArrayVar(&f.release, "release", nil, "Remove all contracts of NAME after hiring (repeatable)")
	cmd.Flags().BoolVar(&f.export, "export", false, "Write the allocation report to report_path")
	return cmd
}

func runHire(ctx context.Context, g *globals, f *hireFlags, args []string) error {
	r, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer r.close()

	for _, spec := range f.train {
		name, role, ok := strings.Cut(spec, "=")
		name, role = strings.TrimSpace(name), strings.TrimSpace(role)
		if !ok || name == "" || role == "" {
			return g.p.Error("Invalid --train value", "Expected NAME=ROLE, got \""+spec+"\".", nil)
		}
		if err := r.svc.Train(ctx, r.id, name, role); err != nil {
			return explain(g.p, err)
		}
		g.p.Step("trained %s as %s\n", name, role)
	}

	// An unfillable single song is reported after the listing and export.
	var pending error
	if len(args) == 1 {
		hired, err := r.svc.HireSong(ctx, r.id, args[0])
		switch {
		case errors.Is(err, allocation.ErrNoCandidateAvailable):
			pending = err
		case err != nil:
			return explain(g.p, err)
		}
		g.p.Heading("Hired for %q", args[0])
		printHired(g, hired)
	} else {
		res, err := r.svc.HireShow(ctx, r.id)
		if err != nil {
			return explain(g.p, err)
		}
		g.p.Heading("Hired for the show")
		printHired(g, res.Hired)
		g.p.Info("%d staffed, %d already complete, %d incomplete\n", res.Processed, res.Skipped, res.Failed)
		for _, msg := range res.Failures {
			g.p.Warning("%s\n", msg)
		}
	}

	for _, name := range f.release {
		n, err := r.svc.RemoveAllContracts(ctx, r.id, name)
		if err != nil {
			return explain(g.p, err)
		}
		g.p.Step("released %s (%d contracts)\n", name, n)
	}

	list, err := r.svc.Contracts(ctx, r.id)
	if err != nil {
		return explain(g.p, err)
	}
	g.p.Info("\n")
	g.p.Heading("Contracts")
	if len(list.Contracts) == 0 {
		g.p.Info("  none\n")
	}
	for _, k := range list.Contracts {
		g.p.Info("  %-20s %-24s %-16s %10.2f  (%d songs)\n", k.Performer, k.Song, k.Role, k.Price, k.SongsAssigned)
	}
	g.p.Info("Total cost: %.2f\n", list.TotalCost)

	if f.export {
		if err := r.svc.ExportReport(ctx, r.id, r.cfg.ReportPath); err != nil {
			return explain(g.p, err)
		}
		g.p.Success("report written to %s\n", r.cfg.ReportPath)
	}

	if pending != nil {
		return explain(g.p, pending)
	}
	return nil
}

func printHired(g *globals, hired []types.Contract) {
	if len(hired) == 0 {
		g.p.Info("  nobody\n")
		return
	}
	for _, k := range hired {
		g.p.Success("%s as %s in %q for %.2f\n", k.Performer, k.Role, k.Song, k.Price)
	}
}
