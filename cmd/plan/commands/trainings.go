package commands

import (
	"github.com/spf13/cobra"

	service "github.com/okian/sinfonia/internal/app"
)

func newTrainingsCommand(g *globals) *cobra.Command {
	var unitCost float64
	cmd := &cobra.Command{
		Use:   "trainings",
		Short: "Estimate the trainings that would make hiring unnecessary",
		Long: `Computes the minimum number of trainings house artists would need so
that every song can be played without hiring, and prices them at the
training unit cost.

Examples:
  plan trainings
  plan trainings --unit-cost 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var opts []service.Option
			if cmd.Flags().Changed("unit-cost") {
				opts = append(opts, service.WithTrainingUnitCost(unitCost))
			}
			r, err := g.open(ctx, opts...)
			if err != nil {
				return err
			}
			defer r.close()

			est, err := r.svc.Trainings(ctx, r.id)
			if err != nil {
				return explain(g.p, err)
			}
			if est.Trainings == 0 {
				g.p.Success("No trainings needed: house artists cover every song.\n")
				return nil
			}
			g.p.Info("Minimum trainings: %d\n", est.Trainings)
			g.p.Info("Cost at %.2f each: %.2f\n", est.UnitCost, est.Cost)
			return nil
		},
	}
	cmd.Flags().Float64Var(&unitCost, "unit-cost", 0, "Price of one training (overrides training_unit_cost)")
	return cmd
}
