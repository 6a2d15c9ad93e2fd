package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <place-name>",
	Short: "Resolve a place name to an agency profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		region, _ := cmd.Flags().GetString("state")
		match := snap.Resolve(args[0], region)

		out := map[string]any{
			"query":    args[0],
			"resolved": match.Resolved(),
			"source":   match.Source.String(),
		}
		if match.Resolved() {
			out["key"] = match.Key
			out["profile"] = match.Profile
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	resolveCmd.Flags().String("state", "", "two-letter region code")
	rootCmd.AddCommand(resolveCmd)
}
