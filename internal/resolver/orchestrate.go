package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/synthetic"
)

// Orchestrator fans one query out across categories and assembles the
// sections a report is synthesized from.
type Orchestrator struct {
	resolver *Resolver
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(r *Resolver) *Orchestrator {
	return &Orchestrator{resolver: r}
}

// ResolveAll resolves every requested category concurrently and returns the
// section map in canonical category order plus the raw per-category results.
// Categories that resolved empty or errored are omitted from the section map
// but still appear in the results for callers that report provenance.
func (o *Orchestrator) ResolveAll(ctx context.Context, query string, categories []model.Category, limit int, f synthetic.Filters) (model.SectionMap, []model.ResolutionResult) {
	if len(categories) == 0 {
		categories = model.AllCategories()
	}

	results := make([]model.ResolutionResult, len(categories))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(categories))

	for i, cat := range categories {
		g.Go(func() error {
			results[i] = o.resolver.Resolve(ctx, Request{
				Category: cat,
				Query:    query,
				Limit:    limit,
				Filters:  f,
			})
			return nil
		})
	}
	// Workers only write their own slot and never return an error.
	_ = g.Wait()

	sections := make(model.SectionMap, 0, len(results))
	for _, res := range results {
		if res.Err != "" || model.ValueCount(res.Records) == 0 {
			continue
		}
		sections = append(sections, model.Section{
			Name:  res.Category.SectionName(),
			Value: res.Records,
		})
	}
	return sections, results
}
