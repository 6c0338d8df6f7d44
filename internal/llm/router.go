package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNoProvider is returned when no registered provider is configured
var ErrNoProvider = errors.New("no reply provider configured")

// Router holds the registered providers and answers through the preferred one,
// falling back to the others in registration order.
type Router struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
	preferred string
}

// NewRouter creates a router that tries preferred first
func NewRouter(preferred string) *Router {
	return &Router{
		providers: make(map[string]Provider),
		preferred: preferred,
	}
}

// RegisterProvider adds a provider, replacing one with the same name
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.providers[name] = provider
}

// GetProvider returns a configured provider by name. An empty name means the preferred one.
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.preferred
	}

	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()

	switch {
	case !ok:
		return nil, fmt.Errorf("provider not found: %s", name)
	case !p.IsConfigured():
		return nil, fmt.Errorf("provider not configured: %s", name)
	}
	return p, nil
}

// ListProviders returns the sorted names of configured providers
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for _, name := range r.order {
		if r.providers[name].IsConfigured() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// DefaultProvider returns the preferred provider name
func (r *Router) DefaultProvider() string {
	return r.preferred
}

// Name makes the router usable as a Provider
func (r *Router) Name() string {
	return "router"
}

// IsConfigured reports whether any provider can answer
func (r *Router) IsConfigured() bool {
	return len(r.candidates()) > 0
}

// Reply asks each configured provider in turn until one answers
func (r *Router) Reply(ctx context.Context, req Request) (*Response, error) {
	candidates := r.candidates()
	if len(candidates) == 0 {
		return nil, ErrNoProvider
	}

	var errs []error
	for _, p := range candidates {
		resp, err := p.Reply(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("provider", p.Name()).Msg("Reply provider failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return nil, errors.Join(errs...)
}

// candidates lists configured providers, preferred first
func (r *Router) candidates() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Provider
	if p, ok := r.providers[r.preferred]; ok && p.IsConfigured() {
		out = append(out, p)
	}
	for _, name := range r.order {
		if name == r.preferred {
			continue
		}
		if p := r.providers[name]; p.IsConfigured() {
			out = append(out, p)
		}
	}
	return out
}
