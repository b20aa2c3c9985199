package commands

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status [SONG]",
		Short: "Show which roles are still missing",
		Long: `Without arguments, lists every song with its staffing state and the
roles missing across the whole show.

With a SONG title, shows only the roles that song is missing.

Examples:
  plan status
  plan status "Under Pressure"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer r.close()

			if len(args) == 1 {
				d, err := r.svc.SongDeficit(ctx, r.id, args[0])
				if err != nil {
					return explain(g.p, err)
				}
				g.p.Heading("Missing roles for %q", args[0])
				printDeficit(g, d, "Every role of this song is covered.")
				return nil
			}

			rep, err := r.svc.Report(ctx, r.id)
			if err != nil {
				return explain(g.p, err)
			}
			g.p.Heading("Songs")
			for _, s := range rep.Songs {
				if s.Complete {
					g.p.Success("%s\n", s.Title)
					continue
				}
				g.p.Warning("%s: missing %s\n", s.Title, formatRoles(s.Missing))
			}

			d, err := r.svc.ShowDeficit(ctx, r.id)
			if err != nil {
				return explain(g.p, err)
			}
			g.p.Info("\n")
			g.p.Heading("Missing roles for the show")
			printDeficit(g, d, "Every role of the show is covered.")
			return nil
		},
	}
}

func printDeficit(g *globals, d map[string]int, covered string) {
	if len(d) == 0 {
		g.p.Success("%s\n", covered)
		return
	}
	for _, role := range slices.Sorted(maps.Keys(d)) {
		g.p.Info("  - %s: %d\n", role, d[role])
	}
}

// formatRoles renders a deficit as "bass ×1, drums ×2" in role order.
func formatRoles(d map[string]int) string {
	parts := make([]string, 0, len(d))
	for _, role := range slices.Sorted(maps.Keys(d)) {
		parts = append(parts, fmt.Sprintf("%s ×%d", role, d[role]))
	}
	return strings.Join(parts, ", ")
}
