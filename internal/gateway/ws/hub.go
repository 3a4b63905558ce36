package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/storage"
)

// RequestHandler serves the request methods of the live feed.
type RequestHandler interface {
	Analyze(ctx context.Context, text, model string) (storage.Record, error)
	Recent(limit int) ([]storage.Record, error)
}

// feedEvents are the bus events forwarded to clients.
var feedEvents = []events.EventType{
	events.EventAnalysisCompleted,
	events.EventAnalysisFailed,
}

// Client represents a connected WebSocket client.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub manages WebSocket clients and bridges them to the event bus.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	handler     RequestHandler
	unsubscribe func()

	// OnClientsChanged, when set, receives the client count after each change.
	OnClientsChanged func(n int)
}

// NewHub creates a hub forwarding analysis events from bus. handler may be
// nil, in which case the feed is read-only.
func NewHub(bus *events.Bus, handler RequestHandler) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		handler: handler,
	}

	if bus != nil {
		h.unsubscribe = bus.Subscribe(func(e events.Event) {
			frame, err := NewEventFrame(string(e.Type), e.SessionID, e.Payload)
			if err != nil {
				slog.Error("marshal event frame", "error", err)
				return
			}
			data, err := MarshalFrame(frame)
			if err != nil {
				slog.Error("marshal frame", "error", err)
				return
			}
			h.broadcast(data)
		}, feedEvents...)
	}

	return h
}

// broadcast sends data to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Info("ws client connected", "clients", n)
	h.notifyCount(n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		slog.Info("ws client disconnected", "clients", n)
		h.notifyCount(n)
	}
}

func (h *Hub) notifyCount(n int) {
	if h.OnClientsChanged != nil {
		h.OnClientsChanged(n)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // any origin, the feed is local
	})
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.register(client)

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

// readPump reads frames from the WS connection and dispatches them.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("ws read closed", "status", websocket.CloseStatus(err))
			} else {
				slog.Debug("ws read error", "error", err)
			}
			return
		}

		frame, err := UnmarshalFrame(data)
		if err != nil {
			slog.Warn("ws unmarshal frame", "error", err)
			continue
		}

		if frame.Type != FrameTypeRequest {
			slog.Debug("ws unknown frame type", "type", frame.Type)
			continue
		}
		c.handleRequest(ctx, frame)
	}
}

// handleRequest dispatches a request frame by method.
func (c *Client) handleRequest(ctx context.Context, frame Frame) {
	if c.hub.handler == nil {
		c.reply(frame.ID, false, nil, "requests not supported")
		return
	}

	switch Method(frame.Method) {
	case MethodAnalyze:
		var params AnalyzeParams
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.reply(frame.ID, false, nil, "invalid params")
			return
		}
		rec, err := c.hub.handler.Analyze(ctx, params.Text, params.Model)
		if err != nil {
			c.reply(frame.ID, false, nil, err.Error())
			return
		}
		c.reply(frame.ID, true, rec, "")

	case MethodHistory:
		var params HistoryParams
		if len(frame.Params) > 0 {
			if err := json.Unmarshal(frame.Params, &params); err != nil {
				c.reply(frame.ID, false, nil, "invalid params")
				return
			}
		}
		recs, err := c.hub.handler.Recent(params.Limit)
		if err != nil {
			c.reply(frame.ID, false, nil, err.Error())
			return
		}
		c.reply(frame.ID, true, recs, "")

	default:
		c.reply(frame.ID, false, nil, "unknown method: "+frame.Method)
	}
}

// writePump writes queued messages to the WS connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) reply(id string, ok bool, payload any, errMsg string) {
	f, err := NewResponseFrame(id, ok, payload, errMsg)
	if err != nil {
		return
	}
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
	}
}
