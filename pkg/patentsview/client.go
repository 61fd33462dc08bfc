// Package patentsview provides a client for the PatentsView patent search
// API.
package patentsview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the PatentsView operations.
type Client interface {
	// SearchPatents returns granted patents whose title or abstract matches
	// a free-text query.
	SearchPatents(ctx context.Context, query string, opts ...SearchOption) (*PatentsResponse, error)
}

// requestFields lists the fields requested from the API.
const requestFields = `["patent_id","patent_title","patent_date","patent_earliest_application_date","patent_type","assignees.assignee_organization","cpc_current.cpc_group_id"]`

// PatentsResponse is the parsed patent listing.
type PatentsResponse struct {
	Patents []Patent `json:"patents"`
	Count   int      `json:"count"`
	Total   int      `json:"total_patent_count"`
}

// Patent is one granted patent.
type Patent struct {
	PatentID   string     `json:"patent_id"`
	Title      string     `json:"patent_title"`
	Date       string     `json:"patent_date"`
	FilingDate string     `json:"patent_earliest_application_date"`
	Type       string     `json:"patent_type"`
	Assignees  []Assignee `json:"assignees"`
	CPCCurrent []CPCEntry `json:"cpc_current"`
}

// Assignee is the organization a patent is assigned to.
type Assignee struct {
	Organization string `json:"assignee_organization"`
}

// CPCEntry is one classification code on a patent.
type CPCEntry struct {
	GroupID string `json:"cpc_group_id"`
}

// SearchOption configures a patent search.
type SearchOption func(*searchOpts)

type searchOpts struct {
	perPage int
}

// WithPerPage caps the number of patents returned.
func WithPerPage(n int) SearchOption {
	return func(o *searchOpts) {
		if n > 0 {
			o.perPage = n
		}
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new PatentsView client. The API key is sent as
// X-Api-Key; pass "" for unauthenticated requests.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://search.patentsview.org/api/v1",
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchPatents(ctx context.Context, query string, opts ...SearchOption) (*PatentsResponse, error) {
	so := &searchOpts{perPage: 10}
	for _, opt := range opts {
		opt(so)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "patentsview: rate limiter")
	}

	q := url.Values{}
	q.Set("q", textQuery(query))
	q.Set("f", requestFields)
	q.Set("o", fmt.Sprintf(`{"size":%d}`, so.perPage))

	reqURL := fmt.Sprintf("%s/patent/?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "patentsview: create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "patentsview: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "patentsview: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("patentsview: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result PatentsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "patentsview: unmarshal response")
	}
	return &result, nil
}

// textQuery matches the query against title or abstract.
func textQuery(query string) string {
	escaped := escapeJSON(query)
	return fmt.Sprintf(`{"_or":[{"_text_any":{"patent_title":"%s"}},{"_text_any":{"patent_abstract":"%s"}}]}`,
		escaped, escaped)
}

func escapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
