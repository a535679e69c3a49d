package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvProxy     = "XWLB_PROXY"
	EnvTimeout   = "XWLB_TIMEOUT"
	EnvUserAgent = "XWLB_USER_AGENT"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultFormat  = "html"
)

// Config holds the defaults for the command line flags.
type Config struct {
	Proxy     string
	Timeout   time.Duration
	UserAgent string
	Format    string
}

// FileConfig represents the structure of ~/.xwlb/config.yaml.
type FileConfig struct {
	Proxy     string `yaml:"proxy"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
	Format    string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Format:  DefaultFormat,
	}
}

// DefaultPath returns ~/.xwlb/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".xwlb", "config.yaml"), nil
}

// Load layers the config file at path (optional) and the environment over
// the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if fc != nil {
			if err := cfg.apply(fc.Proxy, fc.Timeout, fc.UserAgent, fc.Format); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.apply(os.Getenv(EnvProxy), os.Getenv(EnvTimeout), os.Getenv(EnvUserAgent), ""); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a YAML config file. Returns nil if the file doesn't exist.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &fc, nil
}

// apply overrides fields with the non-empty values given.
func (c *Config) apply(proxy, timeout, userAgent, format string) error {
	if proxy != "" {
		c.Proxy = proxy
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("timeout %q: %w", timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout %q must be positive", timeout)
		}
		c.Timeout = d
	}
	if userAgent != "" {
		c.UserAgent = userAgent
	}
	if format != "" {
		c.Format = format
	}
	return nil
}
