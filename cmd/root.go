package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/config"
)

var (
	cfg       *config.Config
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:   "dnalab",
	Short: "DNA-typing data consolidation and matching",
	Long:  "Ingests CODIS, NIEM, tab-text and spreadsheet instrument exports, merges them into one allele-call set, matches specimen profiles and writes a wide per-locus report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if cmd.Flags().Changed("output") {
			cfg.Output.Dir = outputDir
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "output folder holding state and reports (overrides output.dir)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
