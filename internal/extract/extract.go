// Package extract turns free-text queries into canonical search terms.
package extract

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	collapseWS = regexp.MustCompile(`\s+`)
	stripPunct = regexp.MustCompile(`[^\w\s]`)
)

// Extractor maps a free-text query to a canonical term. It is total: every
// query yields a term, falling back to the configured sentinel.
type Extractor struct {
	patterns []*regexp.Regexp
	vocab    []string
	sentinel string
}

// New compiles the configured patterns into an Extractor.
func New(cfg Config) (*Extractor, error) {
	patterns := make([]*regexp.Regexp, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, eris.Wrapf(err, "extract: compile pattern %q", p)
		}
		patterns = append(patterns, re)
	}

	vocab := make([]string, 0, len(cfg.Vocabulary))
	for _, term := range cfg.Vocabulary {
		vocab = append(vocab, strings.ToLower(term))
	}

	sentinel := cfg.Sentinel
	if sentinel == "" {
		sentinel = DefaultConfig().Sentinel
	}

	return &Extractor{patterns: patterns, vocab: vocab, sentinel: sentinel}, nil
}

// Extract returns the canonical term for a query using the configured
// sentinel as the fallback.
func (e *Extractor) Extract(query string) string {
	return e.ExtractWithFallback(query, e.sentinel)
}

// ExtractWithFallback is Extract with a caller-specific sentinel. Patterns
// are tried in order and the first non-trivial capture wins; then the
// vocabulary is scanned in file order; then the sentinel applies. Patterns
// give precise multi-word phrases, vocabulary catches single keywords the
// patterns miss, and the sentinel keeps the function total.
func (e *Extractor) ExtractWithFallback(query, fallback string) string {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, re := range e.patterns {
		m := re.FindStringSubmatch(q)
		if len(m) < 2 {
			continue
		}
		term := normalize(m[1])
		if len(term) > 1 {
			return term
		}
	}

	for _, term := range e.vocab {
		if strings.Contains(q, term) {
			return term
		}
	}

	return fallback
}

func normalize(s string) string {
	s = collapseWS.ReplaceAllString(s, " ")
	s = stripPunct.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
