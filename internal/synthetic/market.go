package synthetic

import (
	"fmt"
	"math"

	"github.com/sells-group/pharma-intel/internal/model"
)

// baseline competitor positions; each call jitters share by up to two points
// and revenue by up to five billion.
type competitorBaseline struct {
	name    string
	share   float64
	revenue float64
}

var competitorBaselines = []competitorBaseline{
	{"Pfizer Inc.", 18, 81.3},
	{"Johnson & Johnson", 15, 94.9},
	{"Roche Holding", 12, 75.1},
	{"Novartis AG", 10, 55.9},
	{"Merck & Co.", 8, 59.7},
}

var marketTrends = []string{
	"Increasing prevalence of chronic diseases",
	"Advancements in personalized medicine",
	"Growing geriatric population",
	"Rising healthcare expenditure",
	"Technological innovations in drug delivery",
	"Expansion in emerging markets",
	"Focus on orphan drugs",
	"Increased investment in R&D",
}

const marketProjectionYears = 5

// MarketIntel generates an aggregate market snapshot for a therapy area.
// The projected value is derived from the current value and CAGR so the three
// figures are mutually consistent.
func (g *Generator) MarketIntel(term string) model.MarketIntel {
	term = g.plausibleTerm(term)

	current := g.intBetween(10, 100)
	cagr := round1(g.between(2.0, 15.0))
	projected := float64(current) * math.Pow(1+cagr/100, marketProjectionYears)

	stats := model.MarketStats{
		TherapyArea:     titleCase(term),
		CurrentValue:    fmt.Sprintf("$%d Billion", current),
		ProjectedValue:  fmt.Sprintf("$%.1f Billion", projected),
		CAGR:            fmt.Sprintf("%.1f%%", cagr),
		YearsProjection: marketProjectionYears,
		LastUpdated:     g.now().Format(dateLayout),
	}

	competitors := make([]model.Competitor, 0, len(competitorBaselines))
	for _, base := range competitorBaselines {
		share := math.Max(1, round1(base.share+g.between(-2, 2)))
		revenue := math.Max(10, round1(base.revenue+g.between(-5, 5)))
		competitors = append(competitors, model.Competitor{
			Name:        base.name,
			MarketShare: fmt.Sprintf("%.1f%%", share),
			Revenue:     fmt.Sprintf("$%.1fB", revenue),
		})
	}

	picked := sample(g, marketTrends, 5)
	trends := make([]model.TherapyTrend, 0, len(picked))
	for i, t := range picked {
		trends = append(trends, model.TherapyTrend{
			Rank:        i + 1,
			Trend:       t,
			ImpactScore: g.intBetween(70, 100),
		})
	}

	return model.MarketIntel{Stats: stats, Competitors: competitors, Trends: trends}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
