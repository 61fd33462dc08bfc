package synthetic

import (
	"sort"

	"github.com/sells-group/pharma-intel/internal/model"
)

var tradeCountries = []string{
	"United States", "Germany", "China", "India", "France",
	"Japan", "Canada", "United Kingdom", "Italy", "South Korea",
	"Brazil", "Australia", "Netherlands", "Switzerland", "Spain",
	"Sweden", "Belgium", "Russia", "Mexico", "Singapore",
}

var majorMarkets = map[string]bool{
	"United States": true, "Germany": true, "China": true, "Japan": true,
}

var midTierMarkets = map[string]bool{
	"India": true, "Canada": true, "United Kingdom": true, "France": true,
}

var productDescriptions = map[string]string{
	"3001": "Glands and other organs",
	"3002": "Blood fractions",
	"3003": "Medicaments (mixed)",
	"3004": "Medicaments",
	"3005": "Diagnostic reagents",
	"3006": "Pharmaceutical goods",
}

func productDescription(hsCode string) string {
	if desc, ok := productDescriptions[hsCode]; ok {
		return desc
	}
	return "Pharmaceutical products"
}

// TradePartners generates top trading partners for an HS code, sorted by
// value descending. Major markets draw higher value multipliers than
// mid-tier and other markets.
func (g *Generator) TradePartners(hsCode string, count int) []model.TradePartner {
	desc := productDescription(hsCode)

	if count > len(tradeCountries) {
		count = len(tradeCountries)
	}
	if count < 0 {
		count = 0
	}

	partners := make([]model.TradePartner, 0, count)
	for i := 0; i < count; i++ {
		country := tradeCountries[i]
		base := g.between(5_000_000, 100_000_000)

		var mult float64
		switch {
		case majorMarkets[country]:
			mult = g.between(1.2, 2.0)
		case midTierMarkets[country]:
			mult = g.between(0.8, 1.5)
		default:
			mult = g.between(0.3, 1.2)
		}

		value := round2(base * mult)
		partners = append(partners, model.TradePartner{
			Partner:            country,
			Value:              value,
			ProductDescription: desc,
			Quantity:           round2(value / g.between(1000, 5000)),
		})
	}

	sort.Slice(partners, func(i, j int) bool { return partners[i].Value > partners[j].Value })
	return partners
}

// TradeTrends generates five years of trade volume ending at the current
// year. Each year after the first is the prior year's value times a growth
// factor in [0.9, 1.2].
func (g *Generator) TradeTrends(hsCode string) []model.TradeTrend {
	desc := productDescription(hsCode)
	currentYear := g.now().Year()

	trends := make([]model.TradeTrend, 0, 5)
	value := g.between(100_000_000, 300_000_000)
	for i := 0; i < 5; i++ {
		if i > 0 {
			value = trends[i-1].Value * g.between(0.9, 1.2)
		}
		trends = append(trends, model.TradeTrend{
			Year:               currentYear - (4 - i),
			Value:              round2(value),
			ProductDescription: desc,
		})
	}
	return trends
}
