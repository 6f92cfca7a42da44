package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eitanfass/DNA-lab/internal/pivot"
	"github.com/eitanfass/DNA-lab/internal/report"
)

var reportXLSX bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rewrite the wide report from the stored records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("xlsx") {
			cfg.Report.XLSX = reportXLSX
		}
		if err := cfg.Validate("report"); err != nil {
			return err
		}

		aliases, err := pivot.LoadAliases(cfg.Pivot.AliasesFile)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		records, err := st.LoadRecords(ctx)
		if err != nil {
			return err
		}

		table := pivot.Unmelt(records, aliases)
		paths, err := report.Write(table, cfg.Output.Dir, cfg.Report.XLSX)
		if err != nil {
			return err
		}

		for _, p := range paths {
			fmt.Fprintln(os.Stdout, p)
		}
		if table.Truncated > 0 {
			fmt.Fprintf(os.Stderr, "warning: %d locus cells held more than %d alleles; only the lowest were kept\n",
				table.Truncated, pivot.AllelesPerLocus)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportXLSX, "xlsx", false, "also write the report as an .xlsx workbook")
	rootCmd.AddCommand(reportCmd)
}
