// Package precompute implements the offline aggregation pipeline: it
// streams jurisdiction-year extract tables, folds them into per-agency
// accumulators and writes the agency and region profile artifacts.
package precompute

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// unitDirPattern matches jurisdiction-year extract directories such as
// "GA-2022".
var unitDirPattern = regexp.MustCompile(`^([A-Z]{2})-(\d{4})$`)

// Unit is one jurisdiction-year extract directory.
type Unit struct {
	Region string
	Year   int
	Dir    string
}

// Summary reports the outcome of one batch run. A skipped unit never
// aborts the run; the caller decides how to surface the counts.
type Summary struct {
	UnitsFound     int           `json:"units_found"`
	Processed      int           `json:"processed"`
	Skipped        int           `json:"skipped"`
	Agencies       int           `json:"agencies"`
	AgencyProfiles int           `json:"agency_profiles"`
	RegionProfiles int           `json:"region_profiles"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// Engine runs the batch aggregation over every discovered unit.
type Engine struct {
	DatasetsDir string
	OutDir      string
	Workers     int
	Severity    SeverityTable
}

// DiscoverUnits lists the jurisdiction-year directories under the
// datasets dir in name order.
func (e *Engine) DiscoverUnits() ([]Unit, error) {
	entries, err := os.ReadDir(e.DatasetsDir)
	if err != nil {
		return nil, eris.Wrap(err, "precompute: read datasets dir")
	}

	var units []Unit
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := unitDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		units = append(units, Unit{
			Region: m[1],
			Year:   parseIntOr(m[2], 0),
			Dir:    filepath.Join(e.DatasetsDir, entry.Name()),
		})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Dir < units[j].Dir })
	return units, nil
}

// Run processes every unit, merges the per-unit accumulators, builds the
// profile maps and writes both artifacts. Units are independent and fan
// out across workers; the merge happens in fixed unit order so repeated
// runs over identical input produce matching artifacts.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	log := zap.L()

	units, err := e.DiscoverUnits()
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, eris.Errorf("precompute: no jurisdiction-year directories under %s", e.DatasetsDir)
	}
	log.Info("discovered units", zap.Int("count", len(units)))

	workers := e.Workers
	if workers < 1 {
		workers = 4
	}

	unitAccs := make([]*Accumulator, len(units))
	var mu sync.Mutex
	skipped := 0
	done := 0
	progress := rate.Sometimes{Interval: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			acc, err := processUnit(unit.Region, unit.Year, unit.Dir, e.Severity)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				skipped++
				log.Warn("unit skipped",
					zap.String("dir", unit.Dir),
					zap.Error(err),
				)
				return nil
			}
			unitAccs[i] = acc
			progress.Do(func() {
				log.Info("batch progress",
					zap.Int("done", done),
					zap.Int("total", len(units)),
					zap.Int("skipped", skipped),
				)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "precompute: batch canceled")
	}

	batch := NewAccumulator()
	for _, acc := range unitAccs {
		if acc != nil {
			batch.Merge(acc)
		}
	}

	log.Info("building profiles", zap.Int("agencies", len(batch.Info)))
	agencies := BuildAgencyProfiles(batch)
	regions := BuildRegionProfiles(agencies)

	if err := e.writeArtifacts(agencies, regions); err != nil {
		return nil, err
	}

	summary := &Summary{
		UnitsFound:     len(units),
		Processed:      len(units) - skipped,
		Skipped:        skipped,
		Agencies:       len(batch.Info),
		AgencyProfiles: len(agencies),
		RegionProfiles: len(regions),
		Elapsed:        time.Since(start),
	}
	log.Info("batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("agency_profiles", summary.AgencyProfiles),
		zap.Int("region_profiles", summary.RegionProfiles),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// writeArtifacts persists both profile maps. Artifacts are replaced
// wholesale; there is no incremental update format.
func (e *Engine) writeArtifacts(agencies map[string]*profile.AgencyProfile, regions map[string]*profile.RegionProfile) error {
	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return eris.Wrap(err, "precompute: create output dir")
	}
	if err := writeJSON(filepath.Join(e.OutDir, profile.AgencyArtifact), agencies); err != nil {
		return err
	}
	return writeJSON(filepath.Join(e.OutDir, profile.RegionArtifact), regions)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return eris.Wrapf(err, "precompute: marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "precompute: write %s", filepath.Base(path))
	}
	zap.L().Info("artifact written",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return nil
}
