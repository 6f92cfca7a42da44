package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/pipeline"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or change the stored settings",
}

// -- settings show --

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the sensitivity and the scanned-file ledger",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		s, err := st.LoadSettings(ctx)
		if err != nil {
			return eris.Wrap(err, "settings show")
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(os.Stdout, s)
		}
		formatSettings(os.Stdout, s)
		return nil
	},
}

// -- settings set --

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the stored sensitivity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		v, _ := cmd.Flags().GetFloat64("sensitivity")
		if err := pipeline.ValidateSensitivity(v); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		s, err := st.LoadSettings(ctx)
		if err != nil {
			return eris.Wrap(err, "settings set")
		}
		if err := st.SaveSettings(ctx, s.WithSensitivity(v)); err != nil {
			return eris.Wrap(err, "settings set")
		}

		fmt.Fprintf(os.Stdout, "sensitivity: %g -> %g\n", s.Sensitivity, v)
		return nil
	},
}

func formatSettings(out io.Writer, s model.Settings) {
	_, _ = fmt.Fprintf(out, "Sensitivity:   %g\n", s.Sensitivity)
	_, _ = fmt.Fprintf(out, "Scanned files: %d\n", len(s.ScannedFiles))
	for _, f := range s.ScannedFiles {
		_, _ = fmt.Fprintf(out, "  %s\n", f)
	}
}

func init() {
	settingsShowCmd.Flags().Bool("json", false, "print as JSON")

	settingsSetCmd.Flags().Float64("sensitivity", model.DefaultSensitivity, "match threshold between 0 and 1")
	_ = settingsSetCmd.MarkFlagRequired("sensitivity")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
