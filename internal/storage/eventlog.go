package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dohr-michael/promptdna/internal/events"
)

// EventLogger persists bus events to JSONL files organized by session.
type EventLogger struct {
	dir         string
	unsubscribe func()
}

// NewEventLogger subscribes to the given event types (all when none) and
// appends them as JSONL to dir, one file per session.
func NewEventLogger(dir string, bus *events.Bus, types ...events.EventType) *EventLogger {
	el := &EventLogger{dir: dir}
	if bus != nil {
		el.unsubscribe = bus.Subscribe(el.handleEvent, types...)
	}
	return el
}

// Close unsubscribes the logger from the event bus.
func (el *EventLogger) Close() {
	if el.unsubscribe != nil {
		el.unsubscribe()
	}
}

func (el *EventLogger) handleEvent(e events.Event) {
	if err := el.writeEvent(e); err != nil {
		slog.Warn("event log write failed", "type", e.Type, "error", err)
	}
}

func (el *EventLogger) writeEvent(e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := el.logPath(e.SessionID)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

func (el *EventLogger) logPath(sessionID string) string {
	if sessionID == "" {
		return filepath.Join(el.dir, "_global.jsonl")
	}
	return filepath.Join(el.dir, sessionID+".jsonl")
}
