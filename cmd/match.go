package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/pipeline"
)

var matchSensitivity float64

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match the stored records without ingesting new files",
	Long:  "Re-runs the match engine over the stored record set. Specimens that already appear in a stored match are not compared again.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("sensitivity") {
			cfg.Match.Sensitivity = &matchSensitivity
		}
		if err := cfg.Validate("match"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		state, stored, err := loadState(ctx, st)
		if err != nil {
			return err
		}

		next, fresh, err := pipeline.Rematch(state)
		if err != nil {
			return eris.Wrap(err, "match")
		}
		if err := saveState(ctx, st, next, stored); err != nil {
			return err
		}

		zap.L().Info("match complete",
			zap.Int("new_matches", len(fresh)),
			zap.Int("total_matches", len(next.Matches)),
		)
		if fresh == nil {
			fresh = []model.Match{}
		}
		return printJSON(os.Stdout, fresh)
	},
}

func init() {
	matchCmd.Flags().Float64Var(&matchSensitivity, "sensitivity", 0, "match threshold for this run only")
	rootCmd.AddCommand(matchCmd)
}
