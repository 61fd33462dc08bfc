package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/pharma-intel/internal/model"
)

const textTimeLayout = "2006-01-02 15:04 UTC"

// renderText produces the plain-text report, which doubles as the stored
// summary for binary formats.
func renderText(query string, sections model.SectionMap, metadata model.ReportMetadata) string {
	var b strings.Builder

	rule := strings.Repeat("=", 72)
	b.WriteString(rule + "\n")
	b.WriteString("PHARMACEUTICAL RESEARCH INTELLIGENCE REPORT\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Query:        %s\n", query)
	fmt.Fprintf(&b, "Generated:    %s\n", metadata.GeneratedAt.Format(textTimeLayout))
	fmt.Fprintf(&b, "Sections:     %s\n", strings.Join(metadata.SectionNames, ", "))
	fmt.Fprintf(&b, "Data points:  %d\n\n", metadata.DataPointCount)

	b.WriteString("KEY FINDINGS\n")
	b.WriteString(strings.Repeat("-", 72) + "\n")
	for _, finding := range keyFindings(sections) {
		fmt.Fprintf(&b, "  * %s\n", finding)
	}
	b.WriteString("\n")

	for _, sec := range sections {
		b.WriteString(strings.ToUpper(sec.Name) + "\n")
		b.WriteString(strings.Repeat("-", 72) + "\n")
		writeSectionText(&b, sec.Value)
		b.WriteString("\n")
	}

	return b.String()
}

// writeSectionText emits the record count plus one example record rather
// than the full list; the excel rendering carries the complete data.
func writeSectionText(b *strings.Builder, value any) {
	records := model.Records(value)
	if records == nil {
		writeAggregateText(b, value)
		return
	}

	fmt.Fprintf(b, "    Found %d records\n", len(records))
	if len(records) == 0 {
		return
	}
	b.WriteString("    Example:\n")
	for _, f := range recordFields(records[0]) {
		fmt.Fprintf(b, "      %-22s %s\n", f.Label+":", f.Value)
	}
}

func writeAggregateText(b *strings.Builder, value any) {
	mi, ok := asMarketIntel(value)
	if !ok {
		for _, f := range recordFields(value) {
			fmt.Fprintf(b, "    %-22s %s\n", f.Label+":", f.Value)
		}
		return
	}

	for _, f := range recordFields(mi.Stats) {
		fmt.Fprintf(b, "    %-22s %s\n", f.Label+":", f.Value)
	}

	b.WriteString("\n    Competitors:\n")
	for _, c := range mi.Competitors {
		fmt.Fprintf(b, "      - %s (share %s, revenue %s)\n", c.Name, c.MarketShare, c.Revenue)
	}

	b.WriteString("\n    Trends:\n")
	for _, tr := range mi.Trends {
		fmt.Fprintf(b, "      %d. %s (impact %d)\n", tr.Rank, tr.Trend, tr.ImpactScore)
	}
}

func asMarketIntel(value any) (model.MarketIntel, bool) {
	switch t := value.(type) {
	case model.MarketIntel:
		return t, true
	case *model.MarketIntel:
		if t != nil {
			return *t, true
		}
	}
	return model.MarketIntel{}, false
}
