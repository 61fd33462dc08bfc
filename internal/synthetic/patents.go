package synthetic

import (
	"fmt"

	"github.com/sells-group/pharma-intel/internal/model"
)

var patentAssignees = []string{
	"Pfizer Inc.",
	"Johnson & Johnson",
	"Roche",
	"Novartis",
	"Merck & Co.",
	"AbbVie",
	"Sanofi",
	"GlaxoSmithKline",
	"AstraZeneca",
	"Bristol-Myers Squibb",
	"Generic Pharmaceuticals Ltd.",
	"Biotech Innovations Inc.",
}

var ipcCodes = []string{
	"A61K31/00", "A61K31/125", "A61K31/195", "A61K31/40", "A61K31/415",
	"A61K31/44", "A61K31/47", "A61K31/55", "A61K31/60", "A61K31/70",
}

var patentKinds = []string{"A1", "B1", "B2"}

var patentTitleTemplates = []string{
	"Method for treating %s using novel compounds",
	"Composition for the treatment of %s",
	"Therapeutic agent targeting %s pathways",
	"Pharmaceutical formulation for %s therapy",
	"Methods and compositions for modulating %s activity",
	"Antibodies for the treatment of %s",
	"Combination therapy for %s patients",
	"Novel inhibitors for %s treatment",
}

const dateLayout = "2006-01-02"

// Patents generates granted patents around a condition. Dates always satisfy
// filing < grant < expiry, with grant 30-365 days after filing and expiry
// exactly 20 years after grant.
func (g *Generator) Patents(term string, count int) []model.Patent {
	term = g.plausibleTerm(term)
	now := g.now()

	patents := make([]model.Patent, 0, count)
	for i := 0; i < count; i++ {
		filing := now.AddDate(0, 0, -g.intBetween(365, 365*10))
		grant := filing.AddDate(0, 0, g.intBetween(30, 365))
		expiry := grant.AddDate(20, 0, 0)

		patents = append(patents, model.Patent{
			PatentID:   fmt.Sprintf("US%d%s", g.intBetween(1_000_000, 9_999_999), pick(g, patentKinds)),
			Title:      fmt.Sprintf(pick(g, patentTitleTemplates), term),
			Assignee:   pick(g, patentAssignees),
			FilingDate: filing.Format(dateLayout),
			GrantDate:  grant.Format(dateLayout),
			ExpiryDate: expiry.Format(dateLayout),
			IPCCodes:   sample(g, ipcCodes, g.intBetween(1, 3)),
		})
	}
	return patents
}

// plausibleTerm swaps the sentinel (or a degenerate term) for a random
// vocabulary topic so synthetic titles stay readable.
func (g *Generator) plausibleTerm(term string) string {
	if term == "" || term == "medical condition" || term == "medical research" || len(term) < 2 {
		return pick(g, medicalTopics)
	}
	return term
}

var medicalTopics = []string{
	"diabetes", "cancer", "alzheimer", "parkinson", "cardiovascular",
	"autoimmune", "infectious disease", "gene therapy", "immunotherapy",
	"antibody", "vaccine", "neurological disorder", "metabolic disorder",
	"chronic pain", "mental health", "rare disease", "pediatric medicine",
}
