package synthetic

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pharma-intel/internal/model"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 99))
	return New(rng).WithNow(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})
}

func TestGenerateDispatch(t *testing.T) {
	g := testGenerator(t)

	for _, cat := range model.AllCategories() {
		out, err := g.Generate(cat, "diabetes", 5, Filters{})
		require.NoError(t, err, "category %s", cat)
		require.NotNil(t, out, "category %s", cat)
	}

	_, err := g.Generate(model.Category("bogus"), "diabetes", 5, Filters{})
	assert.Error(t, err)
}

func TestPatentsDateInvariants(t *testing.T) {
	g := testGenerator(t)
	patents := g.Patents("oncology", 25)
	require.Len(t, patents, 25)

	idPattern := regexp.MustCompile(`^US\d{7}(A1|B1|B2)$`)
	for _, p := range patents {
		filing, err := time.Parse("2006-01-02", p.FilingDate)
		require.NoError(t, err)
		grant, err := time.Parse("2006-01-02", p.GrantDate)
		require.NoError(t, err)
		expiry, err := time.Parse("2006-01-02", p.ExpiryDate)
		require.NoError(t, err)

		assert.True(t, filing.Before(grant), "filing %s not before grant %s", p.FilingDate, p.GrantDate)
		assert.True(t, grant.Before(expiry), "grant %s not before expiry %s", p.GrantDate, p.ExpiryDate)
		assert.Equal(t, grant.AddDate(20, 0, 0), expiry, "expiry is not exactly 20 years after grant")

		gap := grant.Sub(filing)
		assert.GreaterOrEqual(t, gap, 30*24*time.Hour)
		assert.LessOrEqual(t, gap, 365*24*time.Hour)

		assert.Regexp(t, idPattern, p.PatentID)
		assert.Contains(t, p.Title, "oncology")
		assert.NotEmpty(t, p.Assignee)
		require.NotEmpty(t, p.IPCCodes)
		assert.LessOrEqual(t, len(p.IPCCodes), 3)
	}
}

func TestPatentsSentinelTermReplaced(t *testing.T) {
	g := testGenerator(t)
	for _, p := range g.Patents("medical condition", 10) {
		assert.NotContains(t, p.Title, "medical condition")
	}
}

func TestTradePartnersSortedAndTiered(t *testing.T) {
	g := testGenerator(t)
	partners := g.TradePartners("3004", 10)
	require.Len(t, partners, 10)

	for i := 1; i < len(partners); i++ {
		assert.GreaterOrEqual(t, partners[i-1].Value, partners[i].Value, "partners not sorted by value desc")
	}
	for _, p := range partners {
		assert.Equal(t, "Medicaments", p.ProductDescription)
		assert.Positive(t, p.Value)
		assert.Positive(t, p.Quantity)
	}
}

func TestTradePartnersCountClamped(t *testing.T) {
	g := testGenerator(t)
	assert.Len(t, g.TradePartners("3004", 500), len(tradeCountries))
	assert.Empty(t, g.TradePartners("3004", -3))
}

func TestTradeTrendsBoundedGrowth(t *testing.T) {
	g := testGenerator(t)
	trends := g.TradeTrends("9999")
	require.Len(t, trends, 5)

	assert.Equal(t, 2025, trends[4].Year)
	assert.Equal(t, 2021, trends[0].Year)
	assert.Equal(t, "Pharmaceutical products", trends[0].ProductDescription)

	for i := 1; i < len(trends); i++ {
		factor := trends[i].Value / trends[i-1].Value
		assert.GreaterOrEqual(t, factor, 0.9-1e-6)
		assert.LessOrEqual(t, factor, 1.2+1e-6)
	}
}

func TestTrialsFilterPassthrough(t *testing.T) {
	g := testGenerator(t)

	trials := g.Trials("asthma", 8, Filters{Phase: "Phase 3", Status: "Recruiting"})
	require.Len(t, trials, 8)
	for _, tr := range trials {
		assert.Equal(t, "Phase 3", tr.Phase)
		assert.Equal(t, "Recruiting", tr.Status)
		assert.Equal(t, "Asthma", tr.Condition)
		assert.Regexp(t, `^NCT\d{8}$`, tr.NCTID)
	}
}

func TestTrialsRandomPhaseWithoutFilter(t *testing.T) {
	g := testGenerator(t)
	trials := g.Trials("asthma", 40, Filters{})
	assert.Len(t, trials, maxTrials, "trial count is capped")

	seen := map[string]bool{}
	for _, tr := range trials {
		seen[tr.Phase] = true
	}
	assert.Greater(t, len(seen), 1, "expected varied phases without a filter")
}

func TestMarketIntelShape(t *testing.T) {
	g := testGenerator(t)
	mi := g.MarketIntel("cardiovascular")

	assert.Equal(t, "Cardiovascular", mi.Stats.TherapyArea)
	assert.Equal(t, 5, mi.Stats.YearsProjection)
	assert.True(t, strings.HasSuffix(mi.Stats.CAGR, "%"))
	assert.Equal(t, "2025-06-15", mi.Stats.LastUpdated)

	require.Len(t, mi.Competitors, 5)
	assert.Equal(t, "Pfizer Inc.", mi.Competitors[0].Name)
	assert.Equal(t, "Merck & Co.", mi.Competitors[4].Name)

	require.Len(t, mi.Trends, 5)
	for i, tr := range mi.Trends {
		assert.Equal(t, i+1, tr.Rank)
	}
}

func TestMarketIntelValueRanges(t *testing.T) {
	g := testGenerator(t)

	for i := 0; i < 200; i++ {
		mi := g.MarketIntel("diabetes")

		var current int
		_, err := fmt.Sscanf(mi.Stats.CurrentValue, "$%d Billion", &current)
		require.NoError(t, err, "current value %q", mi.Stats.CurrentValue)
		assert.GreaterOrEqual(t, current, 10)
		assert.LessOrEqual(t, current, 100)

		var cagr float64
		_, err = fmt.Sscanf(mi.Stats.CAGR, "%f%%", &cagr)
		require.NoError(t, err, "cagr %q", mi.Stats.CAGR)
		assert.GreaterOrEqual(t, cagr, 2.0)
		assert.LessOrEqual(t, cagr, 15.0)

		for j, c := range mi.Competitors {
			base := competitorBaselines[j]
			assert.Equal(t, base.name, c.Name)

			var share float64
			_, err := fmt.Sscanf(c.MarketShare, "%f%%", &share)
			require.NoError(t, err, "share %q", c.MarketShare)
			assert.GreaterOrEqual(t, share, 1.0)
			assert.InDelta(t, base.share, share, 2.05)

			var revenue float64
			_, err = fmt.Sscanf(c.Revenue, "$%fB", &revenue)
			require.NoError(t, err, "revenue %q", c.Revenue)
			assert.GreaterOrEqual(t, revenue, 10.0)
			assert.InDelta(t, base.revenue, revenue, 5.05)
		}

		for _, tr := range mi.Trends {
			assert.GreaterOrEqual(t, tr.ImpactScore, 70)
			assert.LessOrEqual(t, tr.ImpactScore, 100)
		}
	}
}

func TestWebResultsAndDocs(t *testing.T) {
	g := testGenerator(t)

	results := g.WebResults("diabetes", 6)
	require.Len(t, results, 6)
	for _, r := range results {
		assert.True(t, strings.HasPrefix(r.Link, "https://"))
		assert.NotEmpty(t, r.Source)
		assert.NotEmpty(t, r.Snippet)
	}

	docs := g.InternalDocs("diabetes", 4)
	require.Len(t, docs, 4)
	for _, d := range docs {
		assert.Regexp(t, `^DOC-\d{6}$`, d.DocID)
		assert.NotEmpty(t, d.UploadedBy)
		_, err := time.Parse("2006-01-02", d.UploadedAt)
		assert.NoError(t, err)
	}
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := New(nil)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				g.Patents("diabetes", 3)
				g.TradeTrends("3004")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
