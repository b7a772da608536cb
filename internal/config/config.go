package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs to reach the assessment
// service. Values come from the YAML file, then environment variables
// override.
type Config struct {
	Service struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"service"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	var cfg Config
	cfg.Service.Timeout = "30s"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads YAML config from path and applies environment overrides.
// A missing file is not an error: env-only configuration is the common
// case for a single-binary client.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays QUIZTERM_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("QUIZTERM_SERVICE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("QUIZTERM_HTTP_TIMEOUT"); v != "" {
		cfg.Service.Timeout = v
	}
	if v := os.Getenv("QUIZTERM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QUIZTERM_LOG"); v != "" {
		cfg.Log.File = v
	}
}

// Validate checks that the config is usable for remote calls.
func (c Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service base URL is required (set service.base_url or QUIZTERM_SERVICE_URL)")
	}
	return nil
}

// TimeoutDuration parses the HTTP timeout, falling back when the value
// is empty or malformed.
func (c Config) TimeoutDuration(fallback time.Duration) time.Duration {
	if c.Service.Timeout == "" {
		return fallback
	}
	if d, err := time.ParseDuration(c.Service.Timeout); err == nil {
		return d
	}
	return fallback
}

// DefaultPath resolves the config file location:
// 1. QUIZTERM_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/quizterm/config.yaml
// 3. ~/.config/quizterm/config.yaml
func DefaultPath() string {
	if p := os.Getenv("QUIZTERM_CONFIG"); p != "" {
		return p
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizterm", "config.yaml")
}
