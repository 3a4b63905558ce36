// Package heartbeat lets the CLI tell whether the analysis service is running.
package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is how often the service refreshes its heartbeat file.
const DefaultInterval = 30 * time.Second

// Status represents the liveness state of the service.
type Status string

const (
	StatusAlive      Status = "alive"
	StatusStale      Status = "stale"
	StatusNotRunning Status = "not running"
)

// Heartbeat is the data written to the heartbeat file.
type Heartbeat struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	Provider  string    `json:"provider"`
	Analyses  int64     `json:"analyses"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// Writer periodically writes a heartbeat file to disk.
type Writer struct {
	path     string
	addr     string
	provider string
	interval time.Duration
	started  time.Time
	analyses atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWriter creates a heartbeat writer for a service listening on addr.
func NewWriter(path, addr, provider string) *Writer {
	return &Writer{
		path:     path,
		addr:     addr,
		provider: provider,
		interval: DefaultInterval,
	}
}

// RecordAnalysis bumps the analysis counter reported in the next heartbeat.
func (w *Writer) RecordAnalysis() {
	w.analyses.Add(1)
}

// Start begins writing heartbeat files in a background goroutine.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}

	w.started = time.Now()
	w.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.write()

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.write()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops writing and removes the heartbeat file.
func (w *Writer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return
	}

	w.cancel()
	<-w.done
	w.cancel = nil

	os.Remove(w.path)
}

func (w *Writer) write() {
	hb := Heartbeat{
		PID:       os.Getpid(),
		Addr:      w.addr,
		Provider:  w.provider,
		Analyses:  w.analyses.Load(),
		StartedAt: w.started,
		Timestamp: time.Now(),
		Uptime:    time.Since(w.started).Truncate(time.Second).String(),
	}

	data, err := json.MarshalIndent(hb, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		slog.Warn("heartbeat dir", "error", err)
		return
	}

	// tmp + rename so readers never see a partial file
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Warn("heartbeat write", "error", err)
		return
	}
	os.Rename(tmp, w.path)
}

// Check reads a heartbeat file and returns the liveness status.
// A heartbeat older than maxAge is stale.
func Check(path string, maxAge time.Duration) (Status, *Heartbeat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusNotRunning, nil, nil
		}
		return StatusNotRunning, nil, fmt.Errorf("read heartbeat: %w", err)
	}

	var hb Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		return StatusNotRunning, nil, fmt.Errorf("unmarshal heartbeat: %w", err)
	}

	if time.Since(hb.Timestamp) > maxAge {
		return StatusStale, &hb, nil
	}

	return StatusAlive, &hb, nil
}
