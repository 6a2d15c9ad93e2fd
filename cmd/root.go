package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lumos",
	Short: "Crime-statistics aggregation and safety scoring toolkit",
	Long:  "Aggregates NIBRS-style incident datasets into agency and region profiles, then scores locations for safety using the precomputed profiles, a trained model, and a transparent formula.",
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
