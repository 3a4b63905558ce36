package models

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func roundTrip(t *testing.T, h http.HandlerFunc) (*http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	transport := &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"}
	req, _ := http.NewRequest("POST", srv.URL+"/api/chat", nil)
	return transport.RoundTrip(req)
}

func TestOllamaTransport_PassesJSON(t *testing.T) {
	for _, ct := range []string{"application/json", "application/x-ndjson"} {
		resp, err := roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", ct)
			w.Write([]byte(`{"done":true}`))
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", ct, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != `{"done":true}` {
			t.Errorf("%s: body = %q", ct, body)
		}
	}
}

func TestOllamaTransport_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		ct     string
		body   string
	}{
		{"plain text proxy error", 200, "text/plain", "no available server"},
		{"server error", 503, "application/json", "service unavailable"},
		{"not found", 404, "text/plain", "model \"llama3.2\" not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ct)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			var unavail *ErrModelUnavailable
			if !errors.As(err, &unavail) {
				t.Fatalf("expected ErrModelUnavailable, got %T: %v", err, err)
			}
			if unavail.Provider != "ollama" {
				t.Errorf("provider = %q", unavail.Provider)
			}
			if !strings.Contains(unavail.Body, tt.body) {
				t.Errorf("body = %q, want to contain %q", unavail.Body, tt.body)
			}
		})
	}
}

func TestOllamaTransport_ConnectionError(t *testing.T) {
	transport := &ollamaTransport{inner: http.DefaultTransport, provider: "ollama"}
	req, _ := http.NewRequest("POST", "http://127.0.0.1:1", nil) // nothing listening
	_, err := transport.RoundTrip(req)

	var unavail *ErrModelUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrModelUnavailable, got %T: %v", err, err)
	}
	if unavail.Cause == nil {
		t.Error("expected non-nil Cause for connection error")
	}
	if errors.Unwrap(err) != unavail.Cause {
		t.Error("Unwrap should return Cause")
	}
}
