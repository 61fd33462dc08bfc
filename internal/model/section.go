package model

// Section is one named result group in a report.
type Section struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// SectionMap is the ordered set of named result groups fed into report
// synthesis. A slice rather than a map so section order is deterministic and
// survives into every rendering.
type SectionMap []Section

// FilterEmpty drops sections whose value is nil or an empty record list.
// Idempotent: filtering an already-filtered map is a no-op.
func (s SectionMap) FilterEmpty() SectionMap {
	out := make(SectionMap, 0, len(s))
	for _, sec := range s {
		if ValueCount(sec.Value) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

// Names returns section names in insertion order.
func (s SectionMap) Names() []string {
	names := make([]string, len(s))
	for i, sec := range s {
		names[i] = sec.Name
	}
	return names
}

// DataPoints sums ValueCount over all sections.
func (s SectionMap) DataPoints() int {
	total := 0
	for _, sec := range s {
		total += ValueCount(sec.Value)
	}
	return total
}

// ValueCount returns the number of data points a section value contributes:
// list length for record lists, 1 for a non-nil aggregate object, 0 for nil
// or empty. The list-vs-aggregate branch here is the single source of truth
// shared by every rendering.
func ValueCount(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case []TradePartner:
		return len(t)
	case []TradeTrend:
		return len(t)
	case []ClinicalTrial:
		return len(t)
	case []Patent:
		return len(t)
	case []WebResult:
		return len(t)
	case []InternalDoc:
		return len(t)
	case []any:
		return len(t)
	case MarketIntel:
		return 1
	case *MarketIntel:
		if t == nil {
			return 0
		}
		return 1
	default:
		return 1
	}
}

// Records returns a section value as a uniform []any for rendering, or nil
// when the value is a single aggregate object.
func Records(v any) []any {
	switch t := v.(type) {
	case []TradePartner:
		return toAny(t)
	case []TradeTrend:
		return toAny(t)
	case []ClinicalTrial:
		return toAny(t)
	case []Patent:
		return toAny(t)
	case []WebResult:
		return toAny(t)
	case []InternalDoc:
		return toAny(t)
	case []Competitor:
		return toAny(t)
	case []TherapyTrend:
		return toAny(t)
	case []any:
		return t
	default:
		return nil
	}
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
