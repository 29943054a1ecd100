// Package config loads the command line settings from YAML.
package config

import (
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable overriding the config file path.
const EnvPath = "BL3_SAVIOR_CONFIG"

const DefaultPath = "bl3-savior.yaml"

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

type Config struct {
	LogLevel string `yaml:"log_level"`
	// SchemaPath points to an inventory serial database; empty uses the
	// bundled one. Files ending with .zst are zstd compressed.
	SchemaPath string `yaml:"schema_path"`
	// BalancePath points to a YAML balance table; empty uses the bundled one.
	BalancePath  string `yaml:"balance_path"`
	BatchWorkers int    `yaml:"batch_workers"` // 0 means one per CPU
	OutputFormat string `yaml:"output_format"`
	// StripSeed re-encodes items with seed 0 instead of their own seed.
	StripSeed bool `yaml:"strip_seed"`
}

func Default() Config {
	return Config{
		LogLevel:     "info",
		SchemaPath:   "",
		BalancePath:  "",
		BatchWorkers: runtime.NumCPU(),
		OutputFormat: FormatJSON,
		StripSeed:    false,
	}
}

// Path returns the config path from the environment, or DefaultPath.
func Path() string {
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	return DefaultPath
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config.Load error: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config.Load error: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config.Load error: %s", path)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.BatchWorkers < 0 {
		return errors.Errorf("batch_workers must not be negative, got %d", c.BatchWorkers)
	}
	switch c.OutputFormat {
	case FormatJSON, FormatYAML, FormatCBOR:
	default:
		return errors.Errorf(`unknown output_format "%s"`, c.OutputFormat)
	}
	return nil
}

// SlogLevel returns the configured level, falling back to info.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	level := slog.Level(0)
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, errors.Wrapf(err, `invalid log_level "%s"`, s)
	}
	return level, nil
}
