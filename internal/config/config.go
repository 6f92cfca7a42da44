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
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Pivot  PivotConfig  `yaml:"pivot" mapstructure:"pivot"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the instrument exports.
type InputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig locates the persisted state and the report.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// MatchConfig configures the match engine. A nil Sensitivity defers to the
// value stored in the settings file; an explicit 0 does not.
type MatchConfig struct {
	Sensitivity *float64 `yaml:"sensitivity" mapstructure:"sensitivity"`
}

// IngestConfig configures file parsing.
type IngestConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ReportConfig configures the wide report.
type ReportConfig struct {
	XLSX bool `yaml:"xlsx" mapstructure:"xlsx"`
}

// PivotConfig configures locus canonicalization.
type PivotConfig struct {
	AliasesFile string `yaml:"aliases_file" mapstructure:"aliases_file"`
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
	v.SetEnvPrefix("DNALAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default for the sensitivity so an unset key stays nil.
	_ = v.BindEnv("match.sensitivity")

	// Defaults
	v.SetDefault("input.dir", "data")
	v.SetDefault("output.dir", "output")
	v.SetDefault("ingest.workers", 4)
	v.SetDefault("report.xlsx", false)
	v.SetDefault("pivot.aliases_file", "")
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

// Validate checks the settings a command needs. Mode is "run", "match" or
// "report".
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Output.Dir == "" {
		errs = append(errs, "output.dir is required")
	}
	if s := c.Match.Sensitivity; s != nil && (*s < 0 || *s > 1) {
		errs = append(errs, "match.sensitivity must be between 0 and 1")
	}

	switch mode {
	case "run":
		if c.Input.Dir == "" {
			errs = append(errs, "input.dir is required")
		}
		if c.Ingest.Workers < 1 || c.Ingest.Workers > 64 {
			errs = append(errs, "ingest.workers must be between 1 and 64")
		}
	case "match", "report":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
