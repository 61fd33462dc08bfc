// Package synthetic produces schema-valid stand-in records for every
// category. Output is topically plausible (titles and descriptions
// incorporate the canonical term) but clearly tagged as synthetic by the
// resolver. Not reproducible across calls unless a seeded PRNG is supplied.
package synthetic

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/pharma-intel/internal/model"
)

// Filters carries caller-supplied constraints the generator honors verbatim
// instead of randomizing.
type Filters struct {
	Phase  string
	Status string
	HSCode string
}

// Generator produces synthetic records. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a Generator. A nil rng means time-seeded randomness; pass a
// seeded PCG for deterministic output in tests.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Generator{rng: rng, now: time.Now}
}

// WithNow sets a fixed clock for testing.
func (g *Generator) WithNow(fn func() time.Time) *Generator {
	g.now = fn
	return g
}

// Generate produces count records (or one aggregate for the market category)
// for the category. The only error case is an unknown category.
func (g *Generator) Generate(cat model.Category, term string, count int, f Filters) (any, error) {
	switch cat {
	case model.CategoryTrade:
		return g.TradePartners(f.HSCode, count), nil
	case model.CategoryTrials:
		return g.Trials(term, count, f), nil
	case model.CategoryPatent:
		return g.Patents(term, count), nil
	case model.CategoryMarket:
		return g.MarketIntel(term), nil
	case model.CategoryWeb:
		return g.WebResults(term, count), nil
	case model.CategoryDocs:
		return g.InternalDocs(term, count), nil
	default:
		return nil, eris.Errorf("synthetic: unknown category %q", cat)
	}
}

// locked PRNG helpers

func (g *Generator) intN(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

func (g *Generator) between(lo, hi float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) intBetween(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) perm(n int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Perm(n)
}

func pick[T any](g *Generator, items []T) T {
	return items[g.intN(len(items))]
}

// sample returns k distinct items in random order.
func sample[T any](g *Generator, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	idx := g.perm(len(items))
	out := make([]T, k)
	for i := 0; i < k; i++ {
		out[i] = items[idx[i]]
	}
	return out
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
