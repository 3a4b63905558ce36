// Package analysis invokes the remote analysis function and validates its response.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/dna"
)

const maxResponseBytes = 1 << 20

// Request is the body sent to the analysis function.
type Request struct {
	Text string `json:"text"`
}

// ServiceError is returned when the function reports a failure, either through
// a non-2xx status or an {"error": "..."} body.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode >= 400 {
		return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// FunctionClient calls an HTTP function endpoint ({base_url}/functions/v1/{function}).
type FunctionClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// Option configures a FunctionClient.
type Option func(*FunctionClient)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(fc *FunctionClient) { fc.http = c }
}

// NewFunctionClient creates a client for the configured function.
func NewFunctionClient(cfg config.ClientConfig, opts ...Option) *FunctionClient {
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	fn := cfg.Function
	if fn == "" {
		fn = "analyze-prompt"
	}

	c := &FunctionClient{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/functions/v1/" + fn,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL the client posts to.
func (c *FunctionClient) Endpoint() string { return c.endpoint }

// Analyze sends text to the function. Transport failures, service errors and
// malformed payloads are all returned as errors; nothing is retried.
func (c *FunctionClient) Analyze(ctx context.Context, text string) (*dna.Profile, error) {
	body, err := json.Marshal(Request{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke analysis function: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	slog.Debug("analysis raw response", "status", resp.StatusCode, "bytes", len(raw))

	errMsg, message := errorFields(raw)

	if resp.StatusCode >= 400 {
		msg := errMsg
		if msg == "" {
			msg = message
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	if errMsg != "" {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: errMsg}
	}

	profile, err := dna.ParseProfile(raw)
	if err != nil {
		slog.Debug("invalid analysis payload", "error", err)
		return nil, err
	}
	return profile, nil
}

// errorFields extracts a truthy "error" field and the "message" field of a JSON body.
func errorFields(raw []byte) (errMsg, message string) {
	// Fields are read independently so a mistyped sibling cannot hide "error".
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", ""
	}
	message, _ = body["message"].(string)

	switch v := body["error"].(type) {
	case nil:
	case string:
		errMsg = v
	case bool:
		if v {
			errMsg = message
			if errMsg == "" {
				errMsg = "unknown error"
			}
		}
	case float64:
		if v != 0 {
			errMsg = fmt.Sprint(v)
		}
	default:
		b, _ := json.Marshal(v)
		errMsg = string(b)
	}
	return errMsg, message
}
