package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dohr-michael/promptdna/internal/actors"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/models"
	"github.com/dohr-michael/promptdna/internal/storage"
)

var (
	// ErrEmptyText rejects requests without analyzable text.
	ErrEmptyText = errors.New("text is required")
	// ErrHistoryDisabled is returned by history lookups when no store is configured.
	ErrHistoryDisabled = errors.New("history is disabled")
)

// ProviderResolver looks up model providers. *models.Registry implements it.
type ProviderResolver interface {
	Default(ctx context.Context) (models.Provider, error)
	Get(ctx context.Context, name string) (models.Provider, error)
}

// Service runs analyses for both the HTTP function and the live feed.
type Service struct {
	providers  ProviderResolver
	bus        *events.Bus
	history    *storage.History
	metrics    *Metrics
	pool       *actors.Pool
	onAnalysis func()
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHistory stores every analysis in h.
func WithHistory(h *storage.History) ServiceOption {
	return func(s *Service) { s.history = h }
}

// WithMetrics records analysis metrics on m.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithPool bounds concurrent provider calls with pool's slots.
func WithPool(p *actors.Pool) ServiceOption {
	return func(s *Service) { s.pool = p }
}

// WithAnalysisHook calls fn after every analysis attempt.
func WithAnalysisHook(fn func()) ServiceOption {
	return func(s *Service) { s.onAnalysis = fn }
}

// NewService creates an analysis service.
func NewService(providers ProviderResolver, bus *events.Bus, opts ...ServiceOption) *Service {
	s := &Service{providers: providers, bus: bus}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze scores text with the named provider, or the default one when
// model is empty. The attempt is recorded whatever the outcome.
func (s *Service) Analyze(ctx context.Context, text, model string) (storage.Record, error) {
	if strings.TrimSpace(text) == "" {
		return storage.Record{}, ErrEmptyText
	}

	var (
		provider models.Provider
		err      error
	)
	if model == "" {
		provider, err = s.providers.Default(ctx)
	} else {
		provider, err = s.providers.Get(ctx, model)
	}
	name := model
	if provider != nil {
		name = provider.Name()
	}

	rec := storage.Record{ID: uuid.NewString(), Text: text, Provider: name, CreatedAt: time.Now()}
	start := time.Now()
	var slot *actors.Actor
	if err == nil {
		slot, err = s.pool.Acquire(ctx, name, rec.ID)
	}
	if err == nil {
		// Model call events carry the analysis id.
		rec.Profile, err = provider.Analyze(events.ContextWithSessionID(ctx, rec.ID), text)
		s.pool.Release(slot)
		if err == nil && rec.Profile == nil {
			err = errors.New("provider returned no profile")
		}
	}
	elapsed := time.Since(start)
	if err != nil {
		rec.Profile = nil
		rec.Error = err.Error()
	}

	rec = s.record(rec)
	s.metrics.ObserveAnalysis(name, err == nil, elapsed)
	if s.onAnalysis != nil {
		s.onAnalysis()
	}

	if err != nil {
		slog.Warn("analysis failed", "id", rec.ID, "provider", name, "error", err)
		s.bus.Publish(events.NewTypedEvent(events.SourceGateway, events.AnalysisFailedPayload{
			AnalysisID: rec.ID,
			Provider:   name,
			Error:      err.Error(),
			Duration:   elapsed,
		}))
		return rec, fmt.Errorf("analyze with %s: %w", name, err)
	}

	slog.Info("analysis completed", "id", rec.ID, "provider", name, "top", rec.Profile.Top(), "duration", elapsed)
	s.bus.Publish(events.NewTypedEvent(events.SourceGateway, events.AnalysisCompletedPayload{
		AnalysisID: rec.ID,
		Provider:   name,
		Top:        string(rec.Profile.Top()),
		Color:      rec.Profile.Color().String(),
		Duration:   elapsed,
	}))
	return rec, nil
}

// Slots reports the provider capacity slots, nil without a pool.
func (s *Service) Slots() []actors.Actor {
	return s.pool.Snapshot()
}

// Lookup returns one stored analysis.
func (s *Service) Lookup(id string) (storage.Record, error) {
	if s.history == nil {
		return storage.Record{}, ErrHistoryDisabled
	}
	return s.history.Get(id)
}

// Recent returns the latest stored analyses.
func (s *Service) Recent(limit int) ([]storage.Record, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.List(limit)
}

func (s *Service) record(rec storage.Record) storage.Record {
	if s.history == nil {
		return rec
	}
	saved, err := s.history.Save(rec)
	if err != nil {
		slog.Error("save analysis", "error", err)
		return rec
	}
	return saved
}
