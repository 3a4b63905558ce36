package models

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/eino/callbacks"

	"github.com/dohr-michael/promptdna/internal/config"
)

// observable providers report their model calls to a callback handler.
type observable interface {
	setHandler(h callbacks.Handler)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCallbacks reports every model call of the registry's providers to h.
func WithCallbacks(h callbacks.Handler) RegistryOption {
	return func(r *Registry) { r.handler = h }
}

// ProviderEntry holds a lazily-initialized provider instance.
type ProviderEntry struct {
	Config   config.ProviderConfig
	provider Provider
	once     sync.Once
	err      error
}

// Registry manages named model providers with lazy initialization.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]*ProviderEntry
	defaultName string
	handler     callbacks.Handler
}

// NewRegistry creates a model registry from config.
func NewRegistry(cfg config.ModelsConfig, opts ...RegistryOption) *Registry {
	r := &Registry{
		providers:   make(map[string]*ProviderEntry),
		defaultName: cfg.Default,
	}

	for name, provCfg := range cfg.Providers {
		r.providers[name] = &ProviderEntry{Config: provCfg}
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get returns the named provider, initializing it lazily.
func (r *Registry) Get(ctx context.Context, name string) (Provider, error) {
	r.mu.RLock()
	entry, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("model provider %q not found", name)
	}

	entry.once.Do(func() {
		entry.provider, entry.err = CreateProvider(ctx, name, entry.Config)
		if o, ok := entry.provider.(observable); ok && r.handler != nil {
			o.setHandler(r.handler)
		}
	})

	return entry.provider, entry.err
}

// Default returns the default provider.
func (r *Registry) Default(ctx context.Context) (Provider, error) {
	if r.defaultName == "" {
		return nil, fmt.Errorf("no default model configured")
	}
	return r.Get(ctx, r.defaultName)
}

// DefaultName returns the name of the default provider.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Names lists the configured providers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
