package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/storage"
)

type fakeHandler struct{}

func (fakeHandler) Analyze(ctx context.Context, text, model string) (storage.Record, error) {
	if text == "" {
		return storage.Record{}, errors.New("text is required")
	}
	return storage.Record{
		ID:       "rec-1",
		Text:     text,
		Provider: "mock",
		Profile:  &dna.Profile{Empathy: 90, Curiosity: 10, Chaos: 5, Confidence: 20, Creativity: 30, Summary: "kind"},
	}, nil
}

func (fakeHandler) Recent(limit int) ([]storage.Record, error) {
	return []storage.Record{{ID: "a"}, {ID: "b"}}[:min(limit, 2)], nil
}

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, context.Context) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	for i := 0; i < 200 && hub.ClientCount() == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("client not registered")
	}
	return conn, ctx
}

func roundTrip(t *testing.T, ctx context.Context, conn *websocket.Conn, req Frame) Frame {
	t.Helper()
	data, _ := MarshalFrame(req)
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, raw, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	f, err := UnmarshalFrame(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return f
}

func TestHub_Analyze(t *testing.T) {
	hub := NewHub(nil, fakeHandler{})
	defer hub.Close()
	conn, ctx := dialHub(t, hub)

	params, _ := json.Marshal(AnalyzeParams{Text: "be kind"})
	res := roundTrip(t, ctx, conn, Frame{Type: FrameTypeRequest, ID: "r1", Method: string(MethodAnalyze), Params: params})

	if res.Type != FrameTypeResponse || res.ID != "r1" {
		t.Fatalf("unexpected frame %+v", res)
	}
	if res.OK == nil || !*res.OK {
		t.Fatalf("expected ok, got error %q", res.Error)
	}
	var rec storage.Record
	if err := json.Unmarshal(res.Payload, &rec); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if rec.Profile == nil || rec.Profile.Top() != dna.Empathy {
		t.Errorf("record = %+v", rec)
	}
}

func TestHub_RequestErrors(t *testing.T) {
	hub := NewHub(nil, fakeHandler{})
	defer hub.Close()
	conn, ctx := dialHub(t, hub)

	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"handler error", Frame{Type: FrameTypeRequest, ID: "e1", Method: "analyze", Params: json.RawMessage(`{"text":""}`)}, "text is required"},
		{"bad params", Frame{Type: FrameTypeRequest, ID: "e2", Method: "analyze", Params: json.RawMessage(`[1]`)}, "invalid params"},
		{"unknown method", Frame{Type: FrameTypeRequest, ID: "e3", Method: "dance"}, "unknown method: dance"},
	}
	for _, tt := range tests {
		res := roundTrip(t, ctx, conn, tt.frame)
		if res.OK == nil || *res.OK {
			t.Errorf("%s: expected ok=false", tt.name)
		}
		if res.Error != tt.want {
			t.Errorf("%s: error = %q, want %q", tt.name, res.Error, tt.want)
		}
	}
}

func TestHub_History(t *testing.T) {
	hub := NewHub(nil, fakeHandler{})
	defer hub.Close()
	conn, ctx := dialHub(t, hub)

	res := roundTrip(t, ctx, conn, Frame{Type: FrameTypeRequest, ID: "h", Method: "history", Params: json.RawMessage(`{"limit":1}`)})
	var recs []storage.Record
	if err := json.Unmarshal(res.Payload, &recs); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "a" {
		t.Errorf("recs = %+v", recs)
	}
}

func TestHub_ForwardsAnalysisEvents(t *testing.T) {
	bus := events.NewBus(16)
	defer bus.Close()

	counts := make(chan int, 4)
	hub := NewHub(bus, nil)
	hub.OnClientsChanged = func(n int) { counts <- n }
	defer hub.Close()
	conn, ctx := dialHub(t, hub)

	if n := <-counts; n != 1 {
		t.Errorf("client count = %d, want 1", n)
	}

	// Not part of the feed.
	bus.Publish(events.NewTypedEvent(events.SourceWorkflow, events.WorkflowTransitionPayload{From: "input", To: "analyzing"}))
	bus.Publish(events.NewTypedEvent(events.SourceGateway, events.AnalysisCompletedPayload{AnalysisID: "x1", Top: "chaos"}))

	_, raw, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	f, _ := UnmarshalFrame(raw)
	if f.Type != FrameTypeEvent || f.Event != string(events.EventAnalysisCompleted) {
		t.Fatalf("frame = %+v", f)
	}
	var p events.AnalysisCompletedPayload
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.AnalysisID != "x1" || p.Top != "chaos" {
		t.Errorf("payload = %+v", p)
	}
}

func TestHub_ReadOnly(t *testing.T) {
	hub := NewHub(nil, nil)
	defer hub.Close()
	conn, ctx := dialHub(t, hub)

	res := roundTrip(t, ctx, conn, Frame{Type: FrameTypeRequest, ID: "x", Method: "history"})
	if res.Error != "requests not supported" {
		t.Errorf("error = %q", res.Error)
	}
}
