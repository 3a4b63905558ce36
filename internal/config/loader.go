package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/tailscale/hujson"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load reads a JSONC config file, expands ${{ .Env.VAR }} templates,
// unmarshals it into Config, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variable templates (before standardizing, since templates are in strings)
	expanded := expandEnvTemplates(string(data))

	std, err := hujson.Standardize([]byte(expanded))
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadOrDefault is Load, falling back to defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = "127.0.0.1"
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 18421
	}
	if cfg.Gateway.DBPath == "" {
		cfg.Gateway.DBPath = filepath.Join(DataPath(), "history.db")
	}

	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://" + cfg.Gateway.Addr()
	}
	if cfg.Client.Function == "" {
		cfg.Client.Function = "analyze-prompt"
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = Duration(60 * time.Second)
	}
	if cfg.Client.RevealDelay == 0 {
		cfg.Client.RevealDelay = Duration(2 * time.Second)
	}

	if len(cfg.Models.Providers) == 0 {
		cfg.Models.Providers = map[string]ProviderConfig{
			"mock": {Driver: "mock"},
		}
		if cfg.Models.Default == "" {
			cfg.Models.Default = "mock"
		}
	}

	if cfg.Share.URL == "" {
		cfg.Share.URL = "https://promptdna.app"
	}

	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 1024
	}
}
