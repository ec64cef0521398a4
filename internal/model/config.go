package model

import (
	"runtime"
	"time"
)

// Config is the complete ubkifeat configuration
type Config struct {
	Extraction  ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}

// ExtractionConfig controls feature extraction
type ExtractionConfig struct {
	IgnoreFields []string `yaml:"ignore_fields" mapstructure:"ignore_fields"`

	// ScorePrecedence lets the score mapping override report values on every
	// shared key, including keys the score extractor never fills.
	ScorePrecedence bool `yaml:"score_precedence" mapstructure:"score_precedence"`
}

// InputConfig limits document loading
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// ConcurrencyConfig controls batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// SessionConfig controls the bureau session key store
type SessionConfig struct {
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// MetricsConfig controls metrics export
type MetricsConfig struct {
	// TextfilePath, when set, receives a Prometheus text exposition after
	// each run (node_exporter textfile collector format).
	TextfilePath string `yaml:"textfile_path" mapstructure:"textfile_path"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			IgnoreFields:    []string{},
			ScorePrecedence: true,
		},
		Input: InputConfig{
			MaxBytes: 10_000_000,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Format:  "json",
			Verbose: false,
		},
		Session: SessionConfig{
			Dir:       "",
			MemoryTTL: time.Hour,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
