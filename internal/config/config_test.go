package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "datasets", cfg.Datasets.Dir)
	assert.Equal(t, 4, cfg.Datasets.Workers)
	assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
	assert.Equal(t, "sqlite", cfg.RunLog.Driver)
	assert.Equal(t, "lumos.db", cfg.RunLog.Path)
	assert.Equal(t, int32(10), cfg.RunLog.Pool.MaxConns)
	assert.Equal(t, "artifacts/model.json", cfg.Scorer.ModelPath)
	assert.InDelta(t, 0.044, cfg.Heatmap.Radius, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
datasets:
  dir: /data/nibrs
  workers: 8
runlog:
  driver: postgres
  database_url: postgres://localhost/lumos
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/nibrs", cfg.Datasets.Dir)
	assert.Equal(t, 8, cfg.Datasets.Workers)
	assert.Equal(t, "postgres", cfg.RunLog.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
runlog:
  driver: postgres
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LUMOS_RUNLOG_DRIVER", "sqlite")
	t.Setenv("LUMOS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "sqlite", cfg.RunLog.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("LUMOS_DATASETS_WORKERS", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Datasets.Workers)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config mirroring Load's defaults for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Datasets.Dir = "datasets"
	cfg.Datasets.Workers = 4
	cfg.Artifacts.Dir = "artifacts"
	cfg.RunLog.Driver = "sqlite"
	cfg.RunLog.Path = "lumos.db"
	cfg.Heatmap.Radius = 0.044
	return cfg
}

func TestValidatePrecompute_AllPresent(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("precompute"))
}

func TestValidatePrecompute_MissingFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Datasets.Dir = ""
	cfg.Artifacts.Dir = ""

	err := cfg.Validate("precompute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "datasets.dir is required")
	assert.Contains(t, err.Error(), "artifacts.dir is required")
}

func TestValidateWorkerBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Datasets.Workers = 0
	err := cfg.Validate("precompute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be between 1 and 32")

	cfg.Datasets.Workers = 33
	err = cfg.Validate("precompute")
	assert.Error(t, err)

	cfg.Datasets.Workers = 32
	assert.NoError(t, cfg.Validate("precompute"))
}

func TestValidateRunlogDrivers(t *testing.T) {
	cfg := validDefaults()

	cfg.RunLog.Driver = "postgres"
	err := cfg.Validate("runlog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runlog.database_url is required")

	cfg.RunLog.DatabaseURL = "postgres://localhost/lumos"
	assert.NoError(t, cfg.Validate("runlog"))

	cfg.RunLog.Driver = "mysql"
	err = cfg.Validate("runlog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be sqlite or postgres")

	cfg.RunLog.Driver = "sqlite"
	cfg.RunLog.Path = ""
	err = cfg.Validate("runlog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runlog.path is required")
}

func TestValidateScore(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("score"))

	cfg.Heatmap.Radius = 0
	err := cfg.Validate("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heatmap.radius")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
