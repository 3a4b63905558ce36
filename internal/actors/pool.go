package actors

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dohr-michael/promptdna/internal/config"
)

// DefaultSlots is the slot count of a provider without max_concurrent.
const DefaultSlots = 4

// Pool hands out provider slots. Acquire blocks while every slot of the
// provider is busy.
type Pool struct {
	mu     sync.Mutex
	actors []*Actor
	wake   chan struct{} // closed and replaced on every release
}

// NewPool creates max_concurrent slots (DefaultSlots when unset) per provider.
func NewPool(providers map[string]config.ProviderConfig) *Pool {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	var actors []*Actor
	for _, name := range names {
		n := providers[name].MaxConcurrent
		if n <= 0 {
			n = DefaultSlots
		}
		for i := 0; i < n; i++ {
			actors = append(actors, &Actor{
				ID:           fmt.Sprintf("%s-%d", name, i),
				ProviderName: name,
				Status:       ActorIdle,
			})
		}
	}

	return &Pool{actors: actors, wake: make(chan struct{})}
}

// Acquire reserves a slot of provider for analysis. Providers without slots
// are not limited and yield a nil actor.
func (p *Pool) Acquire(ctx context.Context, provider, analysis string) (*Actor, error) {
	if p == nil {
		return nil, nil
	}

	for {
		p.mu.Lock()
		known := false
		for _, a := range p.actors {
			if a.ProviderName != provider {
				continue
			}
			known = true
			if a.Status == ActorIdle {
				a.Status = ActorBusy
				a.Analysis = analysis
				p.mu.Unlock()
				return a, nil
			}
		}
		wake := p.wake
		p.mu.Unlock()

		if !known {
			return nil, nil
		}

		slog.Debug("waiting for provider slot", "provider", provider, "analysis", analysis)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire %s slot: %w", provider, ctx.Err())
		case <-wake:
		}
	}
}

// Release frees a slot. A nil actor is ignored.
func (p *Pool) Release(a *Actor) {
	if p == nil || a == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	a.Status = ActorIdle
	a.Analysis = ""
	close(p.wake)
	p.wake = make(chan struct{})
}

// Snapshot returns a copy of every slot.
func (p *Pool) Snapshot() []Actor {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Actor, len(p.actors))
	for i, a := range p.actors {
		out[i] = *a
	}
	return out
}
