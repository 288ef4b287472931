// Package config provides configuration management for the toolkit.
package config

import (
	"os"
	"path/filepath"

	"tradekit/internal/errors"
	"tradekit/internal/logging"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
	Check   CheckConfig   `mapstructure:"check"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"` // debug, info, warn, error
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	JSON         bool `mapstructure:"json"`
}

// CheckConfig holds self-check configuration.
type CheckConfig struct {
	Runs     int   `mapstructure:"runs"`
	Parallel int   `mapstructure:"parallel"`
	Seed     int64 `mapstructure:"seed"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradekit"
	}
	return filepath.Join(home, ".config", "tradekit")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
// A missing config.toml is not an error: a template is written and
// defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, errors.Wrap(err, "loading config.toml")
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create a template and continue
			// with defaults.
			if werr := createTemplateConfig(configDir, name); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	logDefaults := logging.DefaultLogConfig()

	v.SetDefault("logging.level", logDefaults.Level)
	v.SetDefault("logging.console", logDefaults.Console)
	v.SetDefault("logging.file", logDefaults.File)
	v.SetDefault("logging.file_path", logDefaults.FilePath)
	v.SetDefault("logging.max_size", logDefaults.MaxSize)
	v.SetDefault("logging.max_backups", logDefaults.MaxBackups)
	v.SetDefault("logging.max_age", logDefaults.MaxAge)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.json", false)

	v.SetDefault("check.runs", 20)
	v.SetDefault("check.parallel", 4)
	v.SetDefault("check.seed", int64(1))
}

func applyEnvOverrides(cfg *Config) {
	// Log level
	if v := os.Getenv("TRADEKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Color output
	if v := os.Getenv("TRADEKIT_NO_COLOR"); v != "" {
		cfg.UI.ColorEnabled = false
	}
}

// Validate validates the configuration. Failures wrap ErrConfigInvalid.
func (c *Config) Validate() error {
	// Validate log level
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "log level %q (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate rotation parameters
	if c.Logging.MaxSize < 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "max_size must be at least 1")
	}
	if c.Logging.MaxBackups < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "max_backups must be non-negative")
	}
	if c.Logging.MaxAge < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "max_age must be non-negative")
	}

	// Validate check parameters
	if c.Check.Runs < 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "check runs must be at least 1")
	}
	if c.Check.Parallel < 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "check parallel must be at least 1")
	}

	return nil
}

// LogConfig converts the logging section to a logging.LogConfig.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
	if lc.FilePath == "" {
		lc.FilePath = logging.DefaultLogConfig().FilePath
	}
	return lc
}
