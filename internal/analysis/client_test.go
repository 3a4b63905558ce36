package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/dna"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *FunctionClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFunctionClient(config.ClientConfig{BaseURL: srv.URL + "/", APIKey: "anon"})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestAnalyze_Success(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	var gotReq Request

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"empathy": 70, "curiosity": 20, "chaos": 5.5, "confidence": 60, "creativity": 33, "summary": "Steady and kind."}`))
	})

	p, err := c.Analyze(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}

	want := dna.Profile{Empathy: 70, Curiosity: 20, Chaos: 5.5, Confidence: 60, Creativity: 33, Summary: "Steady and kind."}
	if *p != want {
		t.Errorf("got %+v, want %+v", *p, want)
	}
	if gotPath != "/functions/v1/analyze-prompt" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotReq.Text != "hello world" {
		t.Errorf("unexpected request text %q", gotReq.Text)
	}
	if gotAuth != "Bearer anon" || gotKey != "anon" {
		t.Errorf("unexpected auth headers %q / %q", gotAuth, gotKey)
	}
}

func TestAnalyze_ErrorBodyWithOKStatus(t *testing.T) {
	c := newTestClient(t, respond(http.StatusOK, `{"error": "Rate limit exceeded"}`))

	_, err := c.Analyze(context.Background(), "text")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if err.Error() != "Rate limit exceeded" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAnalyze_ErrorBodyWithMistypedSibling(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"numeric message", `{"error": "boom", "message": 5, "empathy": 50, "curiosity": 50, "chaos": 50, "confidence": 50, "creativity": 50, "summary": "s"}`, "boom"},
		{"object message", `{"error": "quota", "message": {"code": 1}}`, "quota"},
		{"true error, string message", `{"error": true, "message": "down", "summary": 3}`, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, respond(http.StatusOK, tt.body))

			p, err := c.Analyze(context.Background(), "text")
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("expected ServiceError, got profile %+v, err %v", p, err)
			}
			if svcErr.Message != tt.want {
				t.Errorf("message = %q, want %q", svcErr.Message, tt.want)
			}
		})
	}
}

func TestAnalyze_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", 500, `{"error": "AI gateway down"}`, "AI gateway down"},
		{"message field", 401, `{"message": "Invalid JWT"}`, "Invalid JWT"},
		{"plain text", 502, `bad gateway`, "bad gateway"},
		{"empty", 503, ``, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, respond(tt.status, tt.body))
			_, err := c.Analyze(context.Background(), "text")

			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("expected ServiceError, got %v", err)
			}
			if svcErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", svcErr.StatusCode, tt.status)
			}
			if svcErr.Message != tt.want {
				t.Errorf("message = %q, want %q", svcErr.Message, tt.want)
			}
		})
	}
}

func TestAnalyze_Malformed(t *testing.T) {
	tests := []string{
		`{"empathy": 70, "curiosity": 20, "chaos": 5, "confidence": 60, "summary": "x"}`,
		`{"empathy": "70", "curiosity": 20, "chaos": 5, "confidence": 60, "creativity": 1, "summary": "x"}`,
		`{"empathy": 70, "curiosity": 20, "chaos": 5, "confidence": 60, "creativity": 1}`,
		`{"error": ""}`,
		`not json`,
	}

	for _, body := range tests {
		c := newTestClient(t, respond(http.StatusOK, body))
		_, err := c.Analyze(context.Background(), "text")
		if !errors.Is(err, dna.ErrMalformedResponse) {
			t.Errorf("body %s: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestAnalyze_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewFunctionClient(config.ClientConfig{BaseURL: url})
	_, err := c.Analyze(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invoke analysis function") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestAnalyze_NoRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.Analyze(context.Background(), "text"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected exactly one call, got %d", calls)
	}
}

func TestAnalyze_ContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := c.Analyze(ctx, "text"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestNewFunctionClient_Endpoint(t *testing.T) {
	c := NewFunctionClient(config.ClientConfig{BaseURL: "https://x.supabase.co/", Function: "dna"})
	if got := c.Endpoint(); got != "https://x.supabase.co/functions/v1/dna" {
		t.Errorf("Endpoint() = %q", got)
	}
}
