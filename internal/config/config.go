package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/lightsample/internal/payload"
)

// Config represents the generator configuration
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Output      OutputConfig      `yaml:"output"`
	Encoding    EncodingConfig    `yaml:"encoding"`
	Compression CompressionConfig `yaml:"compression"`
	Generate    GenerateConfig    `yaml:"generate"`
	Database    DatabaseConfig    `yaml:"database"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Scenarios   []ScenarioConfig  `yaml:"scenarios"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  *bool  `yaml:"colors"` // default: true
	UseJSON bool   `yaml:"use_json"`
}

// UseColors returns whether console output is colored (default: true)
func (c *LogConfig) UseColors() bool {
	return c.Colors == nil || *c.Colors
}

// OutputConfig controls where fixtures are written
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// EncodingConfig contains binary encoding switches
type EncodingConfig struct {
	// LegacyTruncation narrows floats and dim level to a byte before encoding,
	// reproducing fixtures consumed by older readers.
	LegacyTruncation bool `yaml:"legacy_truncation"`
}

// CompressionConfig contains gzip settings
type CompressionConfig struct {
	Enabled *bool `yaml:"enabled"` // default: true
	Level   *int  `yaml:"level"`   // default: -1 (codec default)
}

// IsEnabled returns whether gzip siblings are written (default: true)
func (c *CompressionConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// GetLevel returns the gzip level with default
func (c *CompressionConfig) GetLevel() int {
	if c.Level == nil {
		return -1
	}
	return *c.Level
}

// GenerateConfig contains sample generation settings
type GenerateConfig struct {
	Seed         uint64 `yaml:"seed"` // 0 = seed from clock
	SerialPrefix string `yaml:"serial_prefix"`
}

// DatabaseConfig contains artifact ledger settings
type DatabaseConfig struct {
	Path      string   `yaml:"path"`      // empty disables the ledger
	Retention Duration `yaml:"retention"` // prune older entries on start; 0 keeps everything
}

// Duration is a time.Duration that unmarshals from strings like "720h"
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables the Prometheus textfile
}

// ScenarioConfig declares one generation scenario
type ScenarioConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`   // single | compact | batch
	Policy string `yaml:"policy"` // random | patterned | script (batch only)
	Count  int    `yaml:"count"`
	Base   string `yaml:"base"`
	Script string `yaml:"script"` // Lua policy script, policy: script only
	XLSX   bool   `yaml:"xlsx"`   // also write <base>.xlsx for batches
}

// DefaultScenarios returns the five built-in scenarios in run order.
func DefaultScenarios() []ScenarioConfig {
	return []ScenarioConfig{
		{Name: "single-light", Kind: "single", Count: 1, Base: "light"},
		{Name: "compact-single-light", Kind: "compact", Count: 1, Base: "light.compact"},
		{Name: "random-10", Kind: "batch", Policy: "random", Count: 10, Base: "lights.random.10"},
		{Name: "equal-10", Kind: "batch", Policy: "patterned", Count: 10, Base: "lights.equal.10"},
		{Name: "equal-50", Kind: "batch", Policy: "patterned", Count: 50, Base: "lights.equal.50"},
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Resolve script paths relative to the config file
	for i := range cfg.Scenarios {
		cfg.Scenarios[i].Script = resolveRelative(path, cfg.Scenarios[i].Script)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Generate.SerialPrefix == "" {
		c.Generate.SerialPrefix = "LXA34-"
	}
	if len(c.Scenarios) == 0 {
		c.Scenarios = DefaultScenarios()
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == "" {
			c.Scenarios[i].Name = c.Scenarios[i].Base
		}
	}
}

// Validate checks that every scenario is complete.
func (c *Config) Validate() error {
	for i, s := range c.Scenarios {
		if s.Base == "" {
			return fmt.Errorf("scenario %d (%s): base filename is required", i, s.Name)
		}
		if s.Count < 0 || s.Count > payload.MaxBatch {
			return fmt.Errorf("scenario %s: count %d out of range [0, %d]", s.Name, s.Count, payload.MaxBatch)
		}
		if s.Policy == "script" && s.Script == "" {
			return fmt.Errorf("scenario %s: script policy needs a script path", s.Name)
		}
	}
	return nil
}

func resolveRelative(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
