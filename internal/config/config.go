// Package config provides configuration management for rte.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultProbeTimeout = 10 * time.Second

// Config holds the rte configuration.
type Config struct {
	DefaultFormat   string   `yaml:"default_format,omitempty"`
	OutputFormat    string   `yaml:"output_format,omitempty"`
	ExclusiveMenus  bool     `yaml:"exclusive_menus,omitempty"`
	LockAspectRatio *bool    `yaml:"lock_aspect_ratio,omitempty"`
	ProbeTimeout    string   `yaml:"probe_timeout,omitempty"`
	FontDirs        []string `yaml:"font_dirs,omitempty"`
	FallbackFonts   []string `yaml:"fallback_fonts,omitempty"`
	LogFile         string   `yaml:"log_file,omitempty"`
	Trace           bool     `yaml:"trace,omitempty"`
	Readonly        bool     `yaml:"readonly,omitempty"`
}

// Validate checks that every set field holds a usable value.
func (c *Config) Validate() error {
	switch c.DefaultFormat {
	case "", "html", "md":
	default:
		return errors.New("default_format must be html or md")
	}
	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return errors.New("output_format must be table, json or plain")
	}
	if c.ProbeTimeout != "" {
		d, err := time.ParseDuration(c.ProbeTimeout)
		if err != nil {
			return fmt.Errorf("probe_timeout is not a duration: %w", err)
		}
		if d <= 0 {
			return errors.New("probe_timeout must be positive")
		}
	}
	return nil
}

// RatioLock returns whether new media drafts start ratio-locked. It
// defaults to true.
func (c *Config) RatioLock() bool {
	if c.LockAspectRatio == nil {
		return true
	}
	return *c.LockAspectRatio
}

// ProbeTimeoutDuration returns the media probe timeout.
func (c *Config) ProbeTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil || d <= 0 {
		return defaultProbeTimeout
	}
	return d
}

// Format returns the default document format.
func (c *Config) Format() string {
	if c.DefaultFormat == "" {
		return "html"
	}
	return c.DefaultFormat
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("RTE_DEFAULT_FORMAT"); v != "" {
		c.DefaultFormat = v
	}
	if v := os.Getenv("RTE_OUTPUT_FORMAT"); v != "" {
		c.OutputFormat = v
	}
	if b, ok := envBool("RTE_EXCLUSIVE_MENUS"); ok {
		c.ExclusiveMenus = b
	}
	if b, ok := envBool("RTE_LOCK_ASPECT_RATIO"); ok {
		c.LockAspectRatio = &b
	}
	if v := os.Getenv("RTE_PROBE_TIMEOUT"); v != "" {
		c.ProbeTimeout = v
	}
	if v := os.Getenv("RTE_FONT_DIRS"); v != "" {
		c.FontDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("RTE_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if b, ok := envBool("RTE_TRACE"); ok {
		c.Trace = b
	}
	if b, ok := envBool("RTE_READONLY"); ok {
		c.Readonly = b
	}
}

// envBool reads a boolean env var. Unset or unparseable values report false.
func envBool(key string) (value, ok bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rte", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".rte", "config.yml")
	}

	return filepath.Join(home, ".config", "rte", "config.yml")
}

// DefaultLogPath returns where the trace log goes when log_file is unset.
func DefaultLogPath() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "rte", "rte.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "rte.log"
	}
	return filepath.Join(home, ".local", "state", "rte", "rte.log")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// A missing file is an empty config.
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
