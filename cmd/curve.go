package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/hxxtsxxh/lumos.ai/internal/curve"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the 24-hour risk curve for a region",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		region, _ := cmd.Flags().GetString("state")
		baseRisk, _ := cmd.Flags().GetFloat64("base-risk")

		out := map[string]any{
			"region":    region,
			"base_risk": baseRisk,
			"hourly":    curve.Hourly(snap, region, baseRisk),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	curveCmd.Flags().String("state", "", "two-letter region code")
	curveCmd.Flags().Float64("base-risk", 50, "base risk 0-100 used to scale the curve")
	rootCmd.AddCommand(curveCmd)
}
