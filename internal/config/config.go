package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file khata looks for in a ledger directory.
const FileName = "khata.yaml"

// Config represents the top-level khata.yaml configuration.
type Config struct {
	DataDir  string        `yaml:"data_dir"`
	Database string        `yaml:"database"`
	Ingest   IngestConfig  `yaml:"ingest"`
	Matcher  MatcherConfig `yaml:"matcher"`
	Logging  LoggingConfig `yaml:"logging"`
	Git      GitConfig     `yaml:"git"`
}

// IngestConfig bounds the statement loader.
type IngestConfig struct {
	Workers int `yaml:"workers"`
}

// MatcherConfig tunes transfer matching.
type MatcherConfig struct {
	WindowDays int    `yaml:"window_days"`
	Tolerance  string `yaml:"tolerance"` // decimal amount, "0" means exact
}

// LoggingConfig controls console log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls statement archive versioning.
type GitConfig struct {
	AutoCommit bool `yaml:"auto_commit"`
}

// ToleranceAmount parses the matcher tolerance.
func (m MatcherConfig) ToleranceAmount() (decimal.Decimal, error) {
	tol, err := decimal.NewFromString(m.Tolerance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing matcher tolerance %q: %w", m.Tolerance, err)
	}
	return tol, nil
}

// Load reads a khata.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger directory.
func Default() *Config {
	return &Config{
		DataDir:  "statements",
		Database: "khata.db",
		Ingest:   IngestConfig{Workers: 4},
		Matcher:  MatcherConfig{WindowDays: 3, Tolerance: "0"},
		Logging:  LoggingConfig{Level: "info"},
		Git:      GitConfig{AutoCommit: true},
	}
}
