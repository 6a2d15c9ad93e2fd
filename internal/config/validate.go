package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration is sufficient for a given mode.
// Modes map to command families: "precompute" needs the dataset input,
// "score" needs artifacts, "runlog" needs a usable backend.
func (c *Config) Validate(mode string) error {
	var problems []string

	checkRunlog := func() {
		switch c.RunLog.Driver {
		case "sqlite":
			if c.RunLog.Path == "" {
				problems = append(problems, "runlog.path is required for the sqlite driver")
			}
		case "postgres":
			if c.RunLog.DatabaseURL == "" {
				problems = append(problems, "runlog.database_url is required for the postgres driver")
			}
		default:
			problems = append(problems, "runlog.driver must be sqlite or postgres")
		}
	}

	switch mode {
	case "precompute":
		if c.Datasets.Dir == "" {
			problems = append(problems, "datasets.dir is required")
		}
		if c.Datasets.Workers < 1 || c.Datasets.Workers > 32 {
			problems = append(problems, "datasets.workers must be between 1 and 32")
		}
		if c.Artifacts.Dir == "" {
			problems = append(problems, "artifacts.dir is required")
		}
		checkRunlog()
	case "score":
		if c.Artifacts.Dir == "" {
			problems = append(problems, "artifacts.dir is required")
		}
		if c.Heatmap.Radius <= 0 {
			problems = append(problems, "heatmap.radius must be > 0")
		}
	case "runlog":
		checkRunlog()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}
