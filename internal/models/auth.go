package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/secrets"
)

// openSecret decrypts ENC[age:...] keys; plain keys pass through.
var openSecret = func(v string) (string, error) {
	return secrets.Default().Open(v)
}

// ResolveAuth resolves the API key for a provider.
// Resolution order: direct api_key (or ${VAR}) → driver default env.
// Sealed values are decrypted with the local age key.
func ResolveAuth(cfg config.ProviderConfig) (string, error) {
	key, err := lookupKey(cfg)
	if err != nil {
		return "", err
	}
	plain, err := openSecret(key)
	if err != nil {
		return "", fmt.Errorf("open sealed api key: %w", err)
	}
	return plain, nil
}

func lookupKey(cfg config.ProviderConfig) (string, error) {
	key := strings.TrimSpace(cfg.Auth.APIKey)
	if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
		key = os.Getenv(key[2 : len(key)-1])
	}
	if key != "" {
		return key, nil
	}

	switch strings.ToLower(cfg.Driver) {
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key, nil
		}
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	case "gemini":
		for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
			if key := os.Getenv(env); key != "" {
				return key, nil
			}
		}
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	default:
		return "", fmt.Errorf("unknown driver %q: cannot resolve auth", cfg.Driver)
	}
}
