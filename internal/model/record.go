package model

// Record shapes are schema-complete: a field absent from an upstream source is
// set to its zero value, never omitted, so rendering code can rely on every
// field being present.

// TradePartner is one trading partner's aggregate volume for an HS code.
type TradePartner struct {
	Partner            string  `json:"partner"`
	Value              float64 `json:"value"`
	ProductDescription string  `json:"product_description"`
	Quantity           float64 `json:"quantity"`
}

// TradeTrend is one year of trade volume for an HS code.
type TradeTrend struct {
	Year               int     `json:"year"`
	Value              float64 `json:"value"`
	ProductDescription string  `json:"product_description"`
}

// ClinicalTrial is a registered study for a condition.
type ClinicalTrial struct {
	NCTID     string `json:"nct_id"`
	Title     string `json:"title"`
	Condition string `json:"condition"`
	Phase     string `json:"phase"`
	Status    string `json:"status"`
	Sponsor   string `json:"sponsor"`
}

// Patent is a granted or published patent. Dates use YYYY-MM-DD.
type Patent struct {
	PatentID   string   `json:"patent_id"`
	Title      string   `json:"title"`
	Assignee   string   `json:"assignee"`
	FilingDate string   `json:"filing_date"`
	GrantDate  string   `json:"grant_date"`
	ExpiryDate string   `json:"expiry_date"`
	IPCCodes   []string `json:"ipc_codes"`
}

// MarketStats summarizes size and growth for a therapy area.
type MarketStats struct {
	TherapyArea     string `json:"therapy_area"`
	CurrentValue    string `json:"current_value"`
	ProjectedValue  string `json:"projected_value"`
	CAGR            string `json:"cagr"`
	YearsProjection int    `json:"years_projection"`
	LastUpdated     string `json:"last_updated"`
}

// Competitor is one company's position in a therapy area.
type Competitor struct {
	Name        string `json:"name"`
	MarketShare string `json:"market_share"`
	Revenue     string `json:"revenue"`
}

// TherapyTrend is one ranked market trend.
type TherapyTrend struct {
	Rank        int    `json:"rank"`
	Trend       string `json:"trend"`
	ImpactScore int    `json:"impact_score"`
}

// MarketIntel is the aggregate market section value. Unlike the other
// categories it is a single object, not a record list.
type MarketIntel struct {
	Stats       MarketStats    `json:"market_stats"`
	Competitors []Competitor   `json:"competitors"`
	Trends      []TherapyTrend `json:"trends"`
}

// WebResult is one web search hit.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Source  string `json:"source"`
}

// InternalDoc is an internal knowledge-base document.
type InternalDoc struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title"`
	TextExcerpt string `json:"text_excerpt"`
	UploadedBy  string `json:"uploaded_by"`
	UploadedAt  string `json:"uploaded_at"`
}

// ResolutionResult is the outcome of resolving one category. Records is one
// of the category list types (or MarketIntel) and is never nil on the happy
// path; Source is always set so callers can tell real data from synthetic.
type ResolutionResult struct {
	Category Category `json:"category"`
	Records  any      `json:"records"`
	Source   string   `json:"source"`
	Err      string   `json:"error,omitempty"`
}

// SourceSynthetic is the provenance tag for generator-backed results.
const SourceSynthetic = "synthetic"

// Synthetic reports whether the result was produced by the fallback generator.
func (r ResolutionResult) Synthetic() bool {
	return r.Source == SourceSynthetic
}
