package model

import "github.com/rotisserie/eris"

// Category identifies one data domain served by the resolver.
type Category string

const (
	CategoryTrade  Category = "trade"
	CategoryTrials Category = "trials"
	CategoryPatent Category = "patents"
	CategoryMarket Category = "market"
	CategoryWeb    Category = "web"
	CategoryDocs   Category = "docs"
)

// AllCategories returns every category in canonical report order.
func AllCategories() []Category {
	return []Category{
		CategoryTrade,
		CategoryTrials,
		CategoryPatent,
		CategoryMarket,
		CategoryWeb,
		CategoryDocs,
	}
}

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", eris.Errorf("unknown category: %q", s)
}

// SectionName returns the human-readable section label used in reports.
func (c Category) SectionName() string {
	switch c {
	case CategoryTrade:
		return "Trade Data"
	case CategoryTrials:
		return "Clinical Trials"
	case CategoryPatent:
		return "Patents"
	case CategoryMarket:
		return "Market Intelligence"
	case CategoryWeb:
		return "Web Intelligence"
	case CategoryDocs:
		return "Internal Documents"
	default:
		return string(c)
	}
}
