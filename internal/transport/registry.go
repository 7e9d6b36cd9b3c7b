package transport

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/credentials"
	"github.com/ryan-gang/mail-blast/internal/mail"
)

// Builder creates a transport from configuration. authorizer may be nil
// when no interactive flow is possible.
type Builder func(ctx context.Context, cfg config.ConfigProvider, authorizer credentials.Authorizer) (mail.Transport, error)

// Registry maps provider names to transport builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register adds a builder under name
func (r *Registry) Register(name string, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.builders[name] = b
	return nil
}

func (r *Registry) Get(name string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.builders[name]
	return b, exists
}

// List returns all registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the transport for the configured provider, bounding each
// send by the configured send timeout.
func (r *Registry) Build(ctx context.Context, cfg config.ConfigProvider, authorizer credentials.Authorizer) (mail.Transport, error) {
	b, ok := r.Get(cfg.GetProvider())
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (known: %v)", cfg.GetProvider(), r.List())
	}
	t, err := b(ctx, cfg, authorizer)
	if err != nil {
		return nil, fmt.Errorf("creating %s transport: %w", cfg.GetProvider(), err)
	}
	return mail.WithTimeout(t, cfg.GetSendTimeout()), nil
}
