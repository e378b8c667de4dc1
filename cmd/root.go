package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tserra/finqc/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "finqc",
	Short: "Spreadsheet transaction quality pipeline",
	Long:  "Normalizes heterogeneous transaction sheets into a canonical schema, runs cross-field quality rules, and emits the annotated dataset plus a violation report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
