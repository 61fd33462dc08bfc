package extract

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config holds the phrase patterns and vocabulary used for term extraction.
// Both lists are ordered: earlier entries win. They are configuration data,
// editable without touching resolver logic.
type Config struct {
	Patterns   []string `yaml:"patterns"`
	Vocabulary []string `yaml:"vocabulary"`
	Sentinel   string   `yaml:"sentinel"`
}

// DefaultConfig returns the built-in pattern and vocabulary lists so the
// zero-config path works without a file on disk.
func DefaultConfig() Config {
	return Config{
		Patterns: []string{
			`for\s+(.+?)\s+treatment`,
			`for\s+(.+?)\s+patients`,
			`for\s+(.+?)\s+therapy`,
			`clinical trials for\s+(.+)`,
			`diabetes\s+(.+?)\s+treatment`,
			`treatment\s+for\s+(.+)`,
			`(diabetes|cancer|alzheimer|parkinson|cardiovascular|autoimmune)\s*(?:treatment|therapy|disease|condition)?`,
		},
		Vocabulary: []string{
			"diabetes", "cancer", "alzheimer", "parkinson", "cardiovascular",
			"autoimmune", "infectious disease", "gene therapy", "immunotherapy",
			"antibody", "vaccine", "neurological disorder", "metabolic disorder",
			"chronic pain", "mental health", "rare disease", "pediatric medicine",
		},
		Sentinel: "medical condition",
	}
}

// LoadConfig reads extractor configuration from a YAML file. Empty lists
// fall back to the built-in defaults so a partial file is usable.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "extract: read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, eris.Wrap(err, "extract: parse config")
	}

	def := DefaultConfig()
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = def.Patterns
	}
	if len(cfg.Vocabulary) == 0 {
		cfg.Vocabulary = def.Vocabulary
	}
	if cfg.Sentinel == "" {
		cfg.Sentinel = def.Sentinel
	}
	return cfg, nil
}
