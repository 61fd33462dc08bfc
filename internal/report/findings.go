package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/pharma-intel/internal/model"
)

// keyFindings produces one headline per non-empty section. Sections are
// matched lexically by name so renamed or custom sections still get a generic
// count line instead of being dropped.
func keyFindings(sections model.SectionMap) []string {
	findings := make([]string, 0, len(sections))
	for _, sec := range sections {
		findings = append(findings, findingFor(sec))
	}
	return findings
}

func findingFor(sec model.Section) string {
	name := strings.ToLower(sec.Name)
	count := model.ValueCount(sec.Value)

	switch {
	case strings.Contains(name, "patent"):
		return fmt.Sprintf("%d relevant patents identified, including %s", count, topPatentAssignees(sec.Value))
	case strings.Contains(name, "trial"):
		return fmt.Sprintf("%d clinical trials found across sponsors and phases", count)
	case strings.Contains(name, "trade") || strings.Contains(name, "exim"):
		return fmt.Sprintf("Trade data covers %d trading partners by export value", count)
	case strings.Contains(name, "market") || strings.Contains(name, "iqvia"):
		return marketFinding(sec.Value)
	case strings.Contains(name, "web"):
		return fmt.Sprintf("%d recent web intelligence items collected", count)
	case strings.Contains(name, "doc"):
		return fmt.Sprintf("%d internal documents matched the query", count)
	default:
		return fmt.Sprintf("%s: %d data points", sec.Name, count)
	}
}

func topPatentAssignees(v any) string {
	patents, ok := v.([]model.Patent)
	if !ok || len(patents) == 0 {
		return "no named assignees"
	}
	seen := make(map[string]bool)
	names := make([]string, 0, 3)
	for _, p := range patents {
		if p.Assignee == "" || seen[p.Assignee] {
			continue
		}
		seen[p.Assignee] = true
		names = append(names, p.Assignee)
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return "no named assignees"
	}
	return "filings from " + strings.Join(names, ", ")
}

func marketFinding(v any) string {
	var mi model.MarketIntel
	switch t := v.(type) {
	case model.MarketIntel:
		mi = t
	case *model.MarketIntel:
		if t == nil {
			return "Market intelligence available"
		}
		mi = *t
	default:
		return "Market intelligence available"
	}
	if mi.Stats.CurrentValue == "" {
		return "Market intelligence available"
	}
	return fmt.Sprintf("%s market valued at %s, projected to reach %s (CAGR %s)",
		mi.Stats.TherapyArea, mi.Stats.CurrentValue, mi.Stats.ProjectedValue, mi.Stats.CAGR)
}
