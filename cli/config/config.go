// Package config handles CLI configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	DefaultModel string `yaml:"default_model"`
	BaseURL      string `yaml:"base_url,omitempty"`

	// APIKeyRef names the keystore entry holding the API key.
	// Empty means the "default" entry.
	APIKeyRef string `yaml:"api_key_ref,omitempty"`
}

// KeyRef returns the effective keystore entry name.
func (c *Config) KeyRef() string {
	if c.APIKeyRef == "" {
		return "default"
	}
	return c.APIKeyRef
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.lumen/config.yaml
// - Windows: %USERPROFILE%\.lumen\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		// Fallback to current directory
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".lumen", "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing config file is not an error
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
