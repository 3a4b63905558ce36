package callbacks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/promptdna/internal/events"
)

func collect(t *testing.T, bus *events.Bus, n int) []events.ModelCallPayload {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h := bus.History(10); len(h) >= n {
			out := make([]events.ModelCallPayload, 0, len(h))
			for _, e := range h {
				p, ok := events.ExtractPayload[events.ModelCallPayload](e)
				if !ok {
					t.Fatalf("unexpected event %s", e.Type)
				}
				out = append(out, p)
			}
			return out
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d events", n)
	return nil
}

func TestEventBusHandler_Success(t *testing.T) {
	bus := events.NewBus(16)
	defer bus.Close()

	ctx := WithHandler(context.Background(), "openai", NewEventBusHandler(bus))
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{
		Messages: []*schema.Message{schema.SystemMessage("s"), schema.UserMessage("u")},
	})
	callbacks.OnEnd(ctx, &model.CallbackOutput{
		TokenUsage: &model.TokenUsage{PromptTokens: 12, CompletionTokens: 34},
	})

	got := collect(t, bus, 2)
	if got[0].Phase != "request" || got[0].Provider != "openai" || got[0].Messages != 2 {
		t.Errorf("request payload = %+v", got[0])
	}
	if got[1].Phase != "response" || got[1].TokensIn != 12 || got[1].TokensOut != 34 {
		t.Errorf("response payload = %+v", got[1])
	}
}

func TestEventBusHandler_Error(t *testing.T) {
	bus := events.NewBus(16)
	defer bus.Close()

	ctx := WithHandler(context.Background(), "gemini", NewEventBusHandler(bus))
	callbacks.OnError(ctx, errors.New(strings.Repeat("e", 600)))

	got := collect(t, bus, 1)
	if got[0].Phase != "error" || got[0].Provider != "gemini" {
		t.Errorf("payload = %+v", got[0])
	}
	if !strings.HasSuffix(got[0].Error, "... (truncated)") {
		t.Errorf("long errors should be truncated, got len %d", len(got[0].Error))
	}
}

func TestWithHandlerNil(t *testing.T) {
	ctx := context.Background()
	if WithHandler(ctx, "x", nil) != ctx {
		t.Error("nil handler should leave the context untouched")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 100, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello... (truncated)"},
		{"hello world", 0, "hello world"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
