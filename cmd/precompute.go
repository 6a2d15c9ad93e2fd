package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/precompute"
)

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Aggregate incident dataset units into profile artifacts",
	Long: `Walk the datasets directory for REGION-YEAR unit directories, stream
their CSV tables, and write agency_profiles.json and region_profiles.json
to the artifacts directory. The whole batch is a full rebuild; unit
failures are skipped, never fatal.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "precompute"))

		if dir, _ := cmd.Flags().GetString("datasets"); dir != "" {
			cfg.Datasets.Dir = dir
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Artifacts.Dir = out
		}
		if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
			cfg.Datasets.Workers = workers
		}
		if sevFile, _ := cmd.Flags().GetString("severity-file"); sevFile != "" {
			cfg.Datasets.SeverityFile = sevFile
		}
		if err := cfg.Validate("precompute"); err != nil {
			return err
		}

		severity := precompute.SeverityTable{}
		if cfg.Datasets.SeverityFile != "" {
			var err error
			severity, err = precompute.LoadSeverityOverrides(cfg.Datasets.SeverityFile)
			if err != nil {
				return eris.Wrap(err, "precompute: severity overrides")
			}
		}

		st, err := initRunlog(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.StartRun(ctx, "precompute", map[string]any{
			"datasets": cfg.Datasets.Dir,
			"out":      cfg.Artifacts.Dir,
			"workers":  cfg.Datasets.Workers,
		})
		if err != nil {
			return eris.Wrap(err, "precompute: start run")
		}
		log.Info("run started", zap.String("run_id", run.ID))

		engine := &precompute.Engine{
			DatasetsDir: cfg.Datasets.Dir,
			OutDir:      cfg.Artifacts.Dir,
			Workers:     cfg.Datasets.Workers,
			Severity:    severity,
		}

		summary, err := engine.Run(ctx)
		if err != nil {
			if failErr := st.FailRun(ctx, run.ID, err); failErr != nil {
				log.Warn("record failed run", zap.Error(failErr))
			}
			return eris.Wrap(err, "precompute")
		}

		if err := st.CompleteRun(ctx, run.ID, map[string]any{
			"units_found":     summary.UnitsFound,
			"processed":       summary.Processed,
			"skipped":         summary.Skipped,
			"agencies":        summary.Agencies,
			"agency_profiles": summary.AgencyProfiles,
			"region_profiles": summary.RegionProfiles,
			"elapsed":         summary.Elapsed.String(),
		}); err != nil {
			log.Warn("record completed run", zap.Error(err))
		}

		fmt.Printf("Processed %d/%d units (%d skipped): %d agencies, %d profiles, %d regions in %s\n",
			summary.Processed, summary.UnitsFound, summary.Skipped,
			summary.Agencies, summary.AgencyProfiles, summary.RegionProfiles,
			summary.Elapsed.Round(time.Millisecond))
		return nil
	},
}

func init() {
	precomputeCmd.Flags().String("datasets", "", "dataset directory containing REGION-YEAR unit dirs")
	precomputeCmd.Flags().String("out", "", "artifact output directory")
	precomputeCmd.Flags().Int("workers", 0, "concurrent unit workers")
	precomputeCmd.Flags().String("severity-file", "", "YAML severity override file")
	rootCmd.AddCommand(precomputeCmd)
}
