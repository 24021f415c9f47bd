// Package config loads orbitcount configuration from YAML with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dd0wney/cluso-orbitcount/pkg/logging"
	"github.com/dd0wney/cluso-orbitcount/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Engine kinds
const (
	EngineEmbedded  = "embedded"
	EngineReference = "reference"
)

// MaxWorkers bounds batch.workers.
const MaxWorkers = 1024

// Environment variables that override file settings.
const (
	EnvEngine          = "ORBITCOUNT_ENGINE"
	EnvReferenceExe    = "ORBITCOUNT_REFERENCE_EXE"
	EnvWorkers         = "ORBITCOUNT_WORKERS"
	EnvMetricsTextfile = "ORBITCOUNT_METRICS_TEXTFILE"
)

// Config is the complete orbitcount configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig selects the counting engine.
type EngineConfig struct {
	Kind string `yaml:"kind"` // "embedded" or "reference"
	// ReferencePath is the ORCA-compatible executable used by the reference engine.
	ReferencePath string `yaml:"reference_path"`
	// ReferenceWorkDir holds the reference engine's temporary files; empty
	// means the system temp directory.
	ReferenceWorkDir string `yaml:"reference_workdir"`
}

// BatchConfig controls batched counting.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig controls the JSON logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Textfile, when set, receives the metrics in text format after each run.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine:  EngineConfig{Kind: EngineEmbedded},
		Batch:   BatchConfig{Workers: 1},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (or only the defaults when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Engine.Kind = validation.DefaultOr(cfg.Engine.Kind, EngineEmbedded)
	cfg.Logging.Level = validation.DefaultOr(cfg.Logging.Level, "info")
	return cfg, nil
}

// ApplyEnv overrides settings from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvEngine); v != "" {
		c.Engine.Kind = v
	}
	if v := getenv(EnvReferenceExe); v != "" {
		c.Engine.ReferencePath = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Batch.Workers = n
	}
	for _, key := range []string{logging.EnvLogLevel, logging.EnvLogLevelLegacy} {
		if v := getenv(key); v != "" {
			c.Logging.Level = v
			break
		}
	}
	if v := getenv(EnvMetricsTextfile); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.Textfile = v
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		OneOf("engine.kind", c.Engine.Kind, []string{EngineEmbedded, EngineReference}).
		When(c.Engine.Kind == EngineReference, func(cv *validation.ConfigValidator) {
			cv.Required("engine.reference_path", c.Engine.ReferencePath)
		}).
		RangeInt("batch.workers", c.Batch.Workers, 1, MaxWorkers).
		Custom("logging.level", func() error {
			if _, ok := logging.LookupLevel(c.Logging.Level); !ok {
				return fmt.Errorf("unknown level %q", c.Logging.Level)
			}
			return nil
		}).
		When(c.Metrics.Textfile != "", func(cv *validation.ConfigValidator) {
			cv.Custom("metrics.enabled", func() error {
				if !c.Metrics.Enabled {
					return errors.New("textfile is set but metrics are disabled")
				}
				return nil
			})
		}).
		Validate()
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
