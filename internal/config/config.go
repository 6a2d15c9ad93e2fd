package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Datasets  DatasetsConfig  `yaml:"datasets" mapstructure:"datasets"`
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`
	RunLog    RunLogConfig    `yaml:"runlog" mapstructure:"runlog"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Heatmap   HeatmapConfig   `yaml:"heatmap" mapstructure:"heatmap"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatasetsConfig configures the batch precompute input.
type DatasetsConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	Workers      int    `yaml:"workers" mapstructure:"workers"`
	SeverityFile string `yaml:"severity_file" mapstructure:"severity_file"`
}

// ArtifactsConfig configures where profile artifacts are written and read.
type ArtifactsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// RunLogConfig configures the batch run log backend.
type RunLogConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	Path        string     `yaml:"path" mapstructure:"path"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig holds Postgres pool sizing.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// ScorerConfig configures the online scoring engine.
type ScorerConfig struct {
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
}

// HeatmapConfig configures heatmap generation.
type HeatmapConfig struct {
	Radius float64 `yaml:"radius" mapstructure:"radius"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LUMOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("datasets.dir", "datasets")
	v.SetDefault("datasets.workers", 4)
	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("runlog.driver", "sqlite")
	v.SetDefault("runlog.path", "lumos.db")
	v.SetDefault("runlog.pool.max_conns", 10)
	v.SetDefault("runlog.pool.min_conns", 2)
	v.SetDefault("scorer.model_path", "artifacts/model.json")
	v.SetDefault("heatmap.radius", 0.044)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
