package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/pipeline"
	"github.com/eitanfass/DNA-lab/internal/pivot"
	"github.com/eitanfass/DNA-lab/internal/report"
)

var (
	runInput   string
	runXLSX    bool
	runWorkers int

	runSensitivity float64
)

// runSummary is printed to stdout after a batch.
type runSummary struct {
	RunID             string              `json:"run_id"`
	FilesParsed       int                 `json:"files_parsed"`
	FilesSkipped      int                 `json:"files_skipped"`
	FilesIgnored      int                 `json:"files_ignored"`
	NewRecords        int                 `json:"new_records"`
	DuplicatesRemoved int                 `json:"duplicates_removed"`
	TotalRecords      int                 `json:"total_records"`
	NewMatches        []model.Match       `json:"new_matches"`
	TotalMatches      int                 `json:"total_matches"`
	TruncatedCells    int                 `json:"truncated_cells"`
	Failures          []model.FileFailure `json:"failures"`
	Reports           []string            `json:"reports"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest new exports, match profiles and write the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		applyRunFlags(cmd)
		if err := cfg.Validate("run"); err != nil {
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
		state, stored, err := loadState(ctx, st)
		if err != nil {
			return err
		}

		result, err := pipeline.Run(ctx, state, pipeline.Options{
			InputDir: cfg.Input.Dir,
			Workers:  cfg.Ingest.Workers,
			Aliases:  aliases,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		if err := saveState(ctx, st, result.State, stored); err != nil {
			return err
		}
		paths, err := report.Write(result.Table, cfg.Output.Dir, cfg.Report.XLSX)
		if err != nil {
			return err
		}
		failuresPath, err := report.WriteFailures(result.Failures, cfg.Output.Dir)
		if err != nil {
			return err
		}
		paths = append(paths, failuresPath)

		zap.L().Info("batch complete",
			zap.String("run_id", result.RunID),
			zap.Int("new_matches", len(result.NewMatches)),
			zap.Int("failures", len(result.Failures)),
		)

		return printJSON(os.Stdout, runSummary{
			RunID:             result.RunID,
			FilesParsed:       result.FilesParsed,
			FilesSkipped:      result.FilesSkipped,
			FilesIgnored:      result.FilesIgnored,
			NewRecords:        result.NewRecords,
			DuplicatesRemoved: result.DuplicatesRemoved,
			TotalRecords:      len(result.State.Records),
			NewMatches:        result.NewMatches,
			TotalMatches:      len(result.State.Matches),
			TruncatedCells:    result.Table.Truncated,
			Failures:          result.Failures,
			Reports:           paths,
		})
	},
}

// applyRunFlags lets explicitly set flags override the loaded config.
func applyRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Dir = runInput
	}
	if flags.Changed("xlsx") {
		cfg.Report.XLSX = runXLSX
	}
	if flags.Changed("workers") {
		cfg.Ingest.Workers = runWorkers
	}
	if flags.Changed("sensitivity") {
		cfg.Match.Sensitivity = &runSensitivity
	}
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "directory tree of instrument exports (overrides input.dir)")
	runCmd.Flags().BoolVar(&runXLSX, "xlsx", false, "also write the report as an .xlsx workbook")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "concurrent file parses (overrides ingest.workers)")
	runCmd.Flags().Float64Var(&runSensitivity, "sensitivity", 0, "match threshold for this run only")
	rootCmd.AddCommand(runCmd)
}
