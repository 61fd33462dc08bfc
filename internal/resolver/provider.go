// Package resolver walks each category's source chain in priority order and
// falls back to synthetic data when every live source declines, so a lookup
// always yields schema-valid records.
package resolver

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/synthetic"
)

// ErrUnavailable signals that a provider cannot serve the request right now
// (missing credentials, upstream outage). The resolver moves on to the next
// source in the chain.
var ErrUnavailable = eris.New("provider unavailable")

// Request is one category lookup.
type Request struct {
	Category model.Category
	Query    string
	// Term is the canonical search term. When empty it is extracted from
	// Query for categories that need one.
	Term    string
	Limit   int
	Filters synthetic.Filters
}

// Provider fetches records for one category from one source. Fetch returns a
// category record list (or model.MarketIntel); an ErrUnavailable-wrapped
// error means skip to the next source rather than fail the lookup.
type Provider interface {
	// Name returns the source identifier used in chain config.
	Name() string
	// Categories returns the categories this provider can serve.
	Categories() []model.Category
	// Fetch returns records for the request.
	Fetch(ctx context.Context, req Request) (any, error)
}

// Registry manages available providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
