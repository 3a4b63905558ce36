// Package config loads the Prompt DNA configuration file and environment.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for Prompt DNA.
type Config struct {
	Client  ClientConfig  `json:"client"`
	Gateway GatewayConfig `json:"gateway"`
	Models  ModelsConfig  `json:"models"`
	Share   ShareConfig   `json:"share"`
	Events  EventsConfig  `json:"events"`
}

// ClientConfig configures how the client reaches the analysis function.
type ClientConfig struct {
	BaseURL     string   `json:"base_url"`
	Function    string   `json:"function"`
	APIKey      string   `json:"api_key,omitempty"`
	Timeout     Duration `json:"timeout,omitempty"`
	RevealDelay Duration `json:"reveal_delay,omitempty"`
}

// GatewayConfig holds the analysis function server settings.
type GatewayConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	DBPath string `json:"db_path"`
}

// Addr returns host:port.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// ModelsConfig holds model provider configuration.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver    string         `json:"driver"` // "openai", "ollama", "gemini", "mock"
	Model     string         `json:"model"`
	BaseURL   string         `json:"base_url,omitempty"`
	Auth      AuthConfig     `json:"auth"`
	MaxTokens int            `json:"max_tokens,omitempty"`
	// MaxConcurrent bounds parallel calls to this provider in serve mode.
	MaxConcurrent int            `json:"max_concurrent,omitempty"`
	Timeout   Duration       `json:"timeout,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// AuthConfig configures API key resolution.
type AuthConfig struct {
	APIKey string `json:"api_key,omitempty"` // Direct API key or ${VAR}
}

// ShareConfig configures the share surface.
type ShareConfig struct {
	Command string `json:"command,omitempty"` // native share command, text on stdin
	URL     string `json:"url"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
