package resolver

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pharma-intel/internal/model"
)

// SourceSynthetic is the chain name for the synthetic generator. It is the
// terminal source of every chain.
const SourceSynthetic = model.SourceSynthetic

// Chains maps each category to its source names in priority order.
type Chains map[model.Category][]string

// DefaultChains returns the compiled-in source order: live sources first,
// synthetic last.
func DefaultChains() Chains {
	return Chains{
		model.CategoryTrade:  {SourceSynthetic},
		model.CategoryTrials: {SourceClinicalTrials, SourceSynthetic},
		model.CategoryPatent: {SourcePatentsView, SourceSynthetic},
		model.CategoryMarket: {SourceSynthetic},
		model.CategoryWeb:    {SourceOpenAlex, SourceSynthetic},
		model.CategoryDocs:   {SourceDocuments, SourceSynthetic},
	}
}

// LoadChains reads chain overrides from a YAML file and merges them over the
// defaults. Categories absent from the file keep their default chain.
func LoadChains(path string) (Chains, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "chains: read config %s", path)
	}

	// The YAML has a top-level "chains" key.
	var wrapper struct {
		Chains map[string][]string `yaml:"chains"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "chains: parse config")
	}

	chains := DefaultChains()
	for key, sources := range wrapper.Chains {
		cat, err := model.ParseCategory(key)
		if err != nil {
			return nil, eris.Wrapf(err, "chains: config key %q", key)
		}
		if len(sources) == 0 {
			return nil, eris.Errorf("chains: empty chain for %q", key)
		}
		chains[cat] = sources
	}
	return chains, nil
}

// Get returns the chain for a category, guaranteeing synthetic as the final
// source even when an override omits it.
func (c Chains) Get(cat model.Category) []string {
	chain, ok := c[cat]
	if !ok || len(chain) == 0 {
		return []string{SourceSynthetic}
	}
	if chain[len(chain)-1] != SourceSynthetic {
		chain = append(append([]string{}, chain...), SourceSynthetic)
	}
	return chain
}
