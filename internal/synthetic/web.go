package synthetic

import (
	"fmt"
	"strings"

	"github.com/sells-group/pharma-intel/internal/model"
)

var webSources = []string{
	"Reuters Health", "FierceBiotech", "BioPharma Dive", "Endpoints News",
	"STAT News", "Pharmaceutical Technology", "Nature Biotechnology",
}

var webHeadlineTemplates = []string{
	"New research breakthrough in %s treatment announced",
	"FDA grants fast track designation for %s therapy",
	"Clinical data shows promise for %s candidates",
	"Industry leaders invest heavily in %s research",
	"%s market expected to grow through the decade",
	"Partnership formed to accelerate %s drug development",
}

var webSnippetTemplates = []string{
	"Researchers reported encouraging results in %s studies, with experts calling the findings a meaningful step forward for patients.",
	"Analysts expect continued momentum in the %s space as late-stage programs approach key readouts.",
	"The announcement follows a wave of investment in %s programs across major pharmaceutical companies.",
	"Regulators signaled openness to expedited pathways for %s treatments addressing unmet need.",
}

// WebResults generates web search hits about a condition.
func (g *Generator) WebResults(term string, count int) []model.WebResult {
	term = g.plausibleTerm(term)

	results := make([]model.WebResult, 0, count)
	for i := 0; i < count; i++ {
		source := pick(g, webSources)
		title := fmt.Sprintf(pick(g, webHeadlineTemplates), titleCase(term))
		results = append(results, model.WebResult{
			Title:   title,
			Snippet: fmt.Sprintf(pick(g, webSnippetTemplates), term),
			Link:    fmt.Sprintf("https://%s/articles/%s-%d", slugify(source), slugify(term), g.intBetween(10_000, 99_999)),
			Source:  source,
		})
	}
	return results
}

var docAuthors = []string{
	"Research Team", "Regulatory Affairs", "Market Access", "Medical Affairs",
	"Competitive Intelligence", "Portfolio Strategy",
}

var docTitleTemplates = []string{
	"Internal briefing: %s landscape review",
	"%s competitive assessment Q%d",
	"Due diligence notes on %s assets",
	"%s pipeline gap analysis",
}

// InternalDocs generates internal knowledge-base excerpts about a condition.
func (g *Generator) InternalDocs(term string, count int) []model.InternalDoc {
	term = g.plausibleTerm(term)
	now := g.now()

	docs := make([]model.InternalDoc, 0, count)
	for i := 0; i < count; i++ {
		tpl := pick(g, docTitleTemplates)
		var title string
		if strings.Contains(tpl, "Q%d") {
			title = fmt.Sprintf(tpl, titleCase(term), g.intBetween(1, 4))
		} else {
			title = fmt.Sprintf(tpl, titleCase(term))
		}
		uploaded := now.AddDate(0, 0, -g.intBetween(1, 730))
		docs = append(docs, model.InternalDoc{
			DocID:       fmt.Sprintf("DOC-%06d", g.intBetween(100_000, 999_999)),
			Title:       title,
			TextExcerpt: fmt.Sprintf("Summary of current %s programs, key competitors, and near-term catalysts relevant to portfolio planning.", term),
			UploadedBy:  pick(g, docAuthors),
			UploadedAt:  uploaded.Format(dateLayout),
		})
	}
	return docs
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return '-'
		default:
			return -1
		}
	}, s)
	return strings.Trim(s, "-")
}
