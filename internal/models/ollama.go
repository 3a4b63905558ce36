package models

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/promptdna/internal/config"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2"
)

// NewOllama creates a new Ollama ChatModel.
func NewOllama(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOllamaModel
	}

	modelConfig := &einoollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   modelName,
	}

	if cfg.Timeout.Duration() > 0 {
		modelConfig.Timeout = cfg.Timeout.Duration()
	} else {
		modelConfig.Timeout = 120 * time.Second
	}

	opts := &einoollama.Options{}

	if cfg.MaxTokens > 0 {
		opts.NumPredict = cfg.MaxTokens
	}

	if temp, ok := cfg.Options["temperature"].(float64); ok {
		opts.Temperature = float32(temp)
	}
	if numCtx, ok := cfg.Options["num_ctx"].(float64); ok {
		opts.NumCtx = int(numCtx)
	}
	if topP, ok := cfg.Options["top_p"].(float64); ok {
		opts.TopP = float32(topP)
	}

	modelConfig.Options = opts

	// Reverse proxies in front of Ollama answer with plain text errors.
	modelConfig.HTTPClient = &http.Client{
		Timeout:   modelConfig.Timeout,
		Transport: &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"},
	}

	return einoollama.NewChatModel(ctx, modelConfig)
}

// ollamaTransport wraps an http.RoundTripper to detect non-JSON error responses
// from Ollama backends.
type ollamaTransport struct {
	inner    http.RoundTripper
	provider string
}

func (t *ollamaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, &ErrModelUnavailable{Provider: t.provider, Cause: err}
	}

	if resp.StatusCode >= 400 {
		return nil, t.unavailable(resp)
	}

	// application/json or application/x-ndjson when streaming.
	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "json") {
		return nil, t.unavailable(resp)
	}

	return resp, nil
}

func (t *ollamaTransport) unavailable(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	return &ErrModelUnavailable{
		Provider: t.provider,
		Body:     strings.TrimSpace(string(body)),
	}
}
