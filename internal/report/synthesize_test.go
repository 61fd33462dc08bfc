package report

import (
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pharma-intel/internal/model"
)

func testEngine() *Engine {
	return NewEngine().WithNow(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})
}

func testSections() model.SectionMap {
	return model.SectionMap{
		{Name: "Trade Data", Value: []model.TradePartner{
			{Partner: "United States", Value: 120000000.50, ProductDescription: "Medicaments", Quantity: 48000},
			{Partner: "Germany", Value: 95000000.25, ProductDescription: "Medicaments", Quantity: 39000},
		}},
		{Name: "Clinical Trials", Value: []model.ClinicalTrial{
			{NCTID: "NCT01234567", Title: "Metformin Study", Condition: "Diabetes", Phase: "Phase 3", Status: "Recruiting", Sponsor: "Mayo Clinic"},
		}},
		{Name: "Patents", Value: []model.Patent{
			{PatentID: "US1234567B2", Title: "Composition for the treatment of diabetes", Assignee: "Pfizer Inc.",
				FilingDate: "2018-03-01", GrantDate: "2018-11-12", ExpiryDate: "2038-11-12", IPCCodes: []string{"A61K31/00", "A61K31/40"}},
		}},
		{Name: "Market Intelligence", Value: model.MarketIntel{
			Stats: model.MarketStats{TherapyArea: "Diabetes", CurrentValue: "$58.3B", ProjectedValue: "$91.1B", CAGR: "7.2%", YearsProjection: 7, LastUpdated: "2025-06-15"},
			Competitors: []model.Competitor{{Name: "Novo Nordisk", MarketShare: "31.0%", Revenue: "$22.3B"}},
			Trends:      []model.TherapyTrend{{Rank: 1, Trend: "GLP-1 expansion", ImpactScore: 92}},
		}},
	}
}

func TestSynthesizeTextReport(t *testing.T) {
	art, err := testEngine().Synthesize("diabetes research", testSections(), model.FormatText)
	require.NoError(t, err)

	assert.NotEmpty(t, art.ID)
	assert.Equal(t, "diabetes research", art.Query)
	assert.Equal(t, model.FormatText, art.Format)
	assert.Equal(t, art.Summary, string(art.Body))

	text := art.Summary
	assert.Contains(t, text, "PHARMACEUTICAL RESEARCH INTELLIGENCE REPORT")
	assert.Contains(t, text, "Query:        diabetes research")
	assert.Contains(t, text, "TRADE DATA")
	assert.Contains(t, text, "CLINICAL TRIALS")
	assert.Contains(t, text, "NCT ID:")
	assert.Contains(t, text, "NCT01234567")
	assert.Contains(t, text, "GLP-1 expansion")

	// Sections report the count and a single example record.
	assert.Contains(t, text, "Found 2 records")
	assert.Contains(t, text, "Example:")
	assert.Contains(t, text, "United States")
	assert.NotContains(t, text, "Germany")

	assert.Equal(t, []string{"Trade Data", "Clinical Trials", "Patents", "Market Intelligence"}, art.Metadata.SectionNames)
	// 2 trade partners + 1 trial + 1 patent + 1 market aggregate.
	assert.Equal(t, 5, art.Metadata.DataPointCount)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), art.Metadata.GeneratedAt)
}

func TestSynthesizeDropsEmptySections(t *testing.T) {
	sections := testSections()
	sections[2].Value = []model.Patent{}

	art, err := testEngine().Synthesize("diabetes research", sections, model.FormatText)
	require.NoError(t, err)

	assert.NotContains(t, art.Metadata.SectionNames, "Patents")
	assert.Equal(t, 4, art.Metadata.DataPointCount)
	assert.NotContains(t, art.Summary, "PATENTS")
}

func TestSynthesizeMetadataIdenticalAcrossFormats(t *testing.T) {
	e := testEngine()
	sections := testSections()

	var metas []model.ReportMetadata
	for _, format := range []model.Format{model.FormatText, model.FormatExcel, model.FormatPDF} {
		art, err := e.Synthesize("diabetes research", sections, format)
		require.NoError(t, err)
		metas = append(metas, art.Metadata)
	}

	assert.Equal(t, metas[0], metas[1])
	assert.Equal(t, metas[0], metas[2])
}

func TestSynthesizeInvalidFormatFailsClosed(t *testing.T) {
	art, err := testEngine().Synthesize("diabetes research", testSections(), model.Format("zzz"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidFormat))
	assert.Nil(t, art)
}

func TestSynthesizeExcelWorkbook(t *testing.T) {
	art, err := testEngine().Synthesize("diabetes research", testSections(), model.FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", art.Format.ContentType())

	f, err := xlsx.OpenBinary(art.Body)
	require.NoError(t, err)

	require.Len(t, f.Sheets, 5)
	assert.Equal(t, "Summary", f.Sheets[0].Name)
	assert.Equal(t, "Trade Data", f.Sheets[1].Name)
	assert.Equal(t, "Market Intelligence", f.Sheets[4].Name)

	trade := f.Sheets[1]
	require.NotEmpty(t, trade.Rows)
	header := trade.Rows[0]
	require.GreaterOrEqual(t, len(header.Cells), 2)
	assert.Equal(t, "Partner", header.Cells[0].Value)
	assert.Equal(t, "Value", header.Cells[1].Value)
	assert.Equal(t, "United States", trade.Rows[1].Cells[0].Value)
}

func TestSynthesizePDFBody(t *testing.T) {
	art, err := testEngine().Synthesize("diabetes research", testSections(), model.FormatPDF)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(art.Body), "%PDF"))
	assert.Equal(t, "application/pdf", art.Format.ContentType())
	assert.Equal(t, art.Summary, renderText("diabetes research", testSections().FilterEmpty(), art.Metadata))
}

func TestSheetNameTruncationAndDedup(t *testing.T) {
	used := map[string]bool{}

	long := sheetName("An Extremely Long Section Name That Overflows", used)
	assert.Len(t, long, 31)

	first := sheetName("Patents", used)
	second := sheetName("Patents", used)
	assert.Equal(t, "Patents", first)
	assert.Equal(t, "Patents 2", second)
}

func TestKeyFindings(t *testing.T) {
	findings := keyFindings(testSections())
	require.Len(t, findings, 4)

	assert.Contains(t, findings[0], "2 trading partners")
	assert.Contains(t, findings[1], "1 clinical trials")
	assert.Contains(t, findings[2], "Pfizer Inc.")
	assert.Contains(t, findings[3], "$58.3B")

	generic := findingFor(model.Section{Name: "Custom Signals", Value: []model.WebResult{{Title: "x"}}})
	assert.Equal(t, "1 recent web intelligence items collected", findingFor(model.Section{Name: "Web Intelligence", Value: []model.WebResult{{Title: "x"}}}))
	assert.Contains(t, generic, "Custom Signals")
}

func TestRecordFieldLabels(t *testing.T) {
	labels := recordLabels(model.ClinicalTrial{})
	assert.Equal(t, []string{"NCT ID", "Title", "Condition", "Phase", "Status", "Sponsor"}, labels)

	fields := recordFields(model.Patent{IPCCodes: []string{"A61K31/00", "A61K31/40"}})
	last := fields[len(fields)-1]
	assert.Equal(t, "IPC Codes", last.Label)
	assert.Equal(t, "A61K31/00, A61K31/40", last.Value)
}
