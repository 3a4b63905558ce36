package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// DefaultRevealDelay is the minimum time the analyzing step stays visible.
const DefaultRevealDelay = 2 * time.Second

// Analyzer turns text into an emotion profile. Implementations perform a single
// request with no retries.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*dna.Profile, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, text string) (*dna.Profile, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, text string) (*dna.Profile, error) {
	return f(ctx, text)
}

// Runner drives a session through one full analysis for non-interactive callers.
type Runner struct {
	Analyzer    Analyzer
	RevealDelay time.Duration
}

// Run submits text, waits for the analyzer and the reveal delay, and completes or
// fails the session accordingly. The returned error is the cause of the failure.
func (r *Runner) Run(ctx context.Context, s *Session, text string) (*dna.Profile, error) {
	req, err := s.Submit(text)
	if err != nil {
		return nil, err
	}

	profile, err := r.Analyzer.Analyze(ctx, req.Text)
	if err == nil && profile == nil {
		err = dna.ErrMalformedResponse
	}
	if err != nil {
		slog.Debug("analysis failed", "session", s.ID(), "error", err)
		_ = s.Fail(req, err)
		return nil, err
	}

	if err := Pace(ctx, r.RevealDelay); err != nil {
		_ = s.Fail(req, err)
		return nil, err
	}

	if err := s.Complete(req, profile); err != nil {
		return nil, err
	}
	return s.Profile(), nil
}

// Pace blocks for d or until ctx is done.
func Pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
