// Package openalex provides a client for the OpenAlex scholarly works API.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the OpenAlex operations.
type Client interface {
	// SearchWorks returns published works matching a free-text query.
	SearchWorks(ctx context.Context, query string, opts ...SearchOption) (*WorksResponse, error)
}

// WorksResponse is the parsed works listing.
type WorksResponse struct {
	Meta    Meta   `json:"meta"`
	Results []Work `json:"results"`
}

// Meta carries listing totals.
type Meta struct {
	Count int `json:"count"`
}

// Work is one scholarly work.
type Work struct {
	ID              string          `json:"id"`
	DisplayName     string          `json:"display_name"`
	DOI             string          `json:"doi"`
	PublicationYear int             `json:"publication_year"`
	PrimaryLocation PrimaryLocation `json:"primary_location"`
}

// PrimaryLocation points at the hosting venue.
type PrimaryLocation struct {
	LandingPageURL string `json:"landing_page_url"`
	Source         Source `json:"source"`
}

// Source is the hosting journal or repository.
type Source struct {
	DisplayName string `json:"display_name"`
}

// SearchOption configures a works search.
type SearchOption func(*searchOpts)

type searchOpts struct {
	perPage int
}

// WithPerPage caps the number of works returned.
func WithPerPage(n int) SearchOption {
	return func(o *searchOpts) { o.perPage = n }
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
	mailto  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new OpenAlex client. The mailto address opts in to the
// polite pool; pass "" to use the anonymous pool.
func NewClient(mailto string, opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.openalex.org",
		mailto:  mailto,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchWorks(ctx context.Context, query string, opts ...SearchOption) (*WorksResponse, error) {
	so := &searchOpts{perPage: 10}
	for _, opt := range opts {
		opt(so)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "openalex: rate limiter")
	}

	q := url.Values{}
	q.Set("search", query)
	q.Set("per-page", strconv.Itoa(so.perPage))
	if c.mailto != "" {
		q.Set("mailto", c.mailto)
	}

	reqURL := fmt.Sprintf("%s/works?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "openalex: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "openalex: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openalex: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("openalex: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result WorksResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "openalex: unmarshal response")
	}
	return &result, nil
}
