package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/dohr-michael/promptdna/internal/config"
)

// CreateProvider creates a Provider from a provider config.
func CreateProvider(ctx context.Context, name string, cfg config.ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Driver) {
	case "openai":
		apiKey, err := ResolveAuth(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve auth: %w", err)
		}
		chat, err := NewOpenAI(ctx, cfg, apiKey)
		if err != nil {
			return nil, err
		}
		return NewChatProvider(name, chat), nil
	case "ollama":
		chat, err := NewOllama(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewChatProvider(name, chat), nil
	case "gemini":
		apiKey, err := ResolveAuth(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve auth: %w", err)
		}
		return NewGemini(ctx, name, cfg, apiKey)
	case "mock":
		return NewMock(name), nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}
