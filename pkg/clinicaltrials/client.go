// Package clinicaltrials provides a client for the ClinicalTrials.gov v2 API.
package clinicaltrials

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the ClinicalTrials.gov operations.
type Client interface {
	// SearchStudies returns registered studies matching a condition.
	SearchStudies(ctx context.Context, condition string, opts ...SearchOption) (*SearchResponse, error)
}

// SearchResponse is the parsed studies response.
type SearchResponse struct {
	Studies       []Study `json:"studies"`
	NextPageToken string  `json:"nextPageToken"`
}

// Study is one registered study.
type Study struct {
	ProtocolSection ProtocolSection `json:"protocolSection"`
}

// ProtocolSection groups the study modules the API returns.
type ProtocolSection struct {
	Identification IdentificationModule `json:"identificationModule"`
	Status         StatusModule         `json:"statusModule"`
	Design         DesignModule         `json:"designModule"`
	Sponsor        SponsorModule        `json:"sponsorCollaboratorsModule"`
	Conditions     ConditionsModule     `json:"conditionsModule"`
}

type IdentificationModule struct {
	NCTID      string `json:"nctId"`
	BriefTitle string `json:"briefTitle"`
}

type StatusModule struct {
	OverallStatus string `json:"overallStatus"`
}

type DesignModule struct {
	Phases []string `json:"phases"`
}

type SponsorModule struct {
	LeadSponsor LeadSponsor `json:"leadSponsor"`
}

type LeadSponsor struct {
	Name string `json:"name"`
}

type ConditionsModule struct {
	Conditions []string `json:"conditions"`
}

// Phase returns the study's phase in display form ("Phase 3"). The API
// reports phases as enum tokens like PHASE3 or NA.
func (s Study) Phase() string {
	phases := s.ProtocolSection.Design.Phases
	if len(phases) == 0 {
		return "N/A"
	}
	p := phases[0]
	if p == "NA" {
		return "N/A"
	}
	if n, ok := strings.CutPrefix(p, "PHASE"); ok {
		return "Phase " + n
	}
	return p
}

// SearchOption configures a studies search.
type SearchOption func(*searchOpts)

type searchOpts struct {
	pageSize int
	status   string
	phase    string
}

// WithPageSize caps the number of studies returned.
func WithPageSize(n int) SearchOption {
	return func(o *searchOpts) { o.pageSize = n }
}

// WithStatus filters by overall status (e.g. "RECRUITING").
func WithStatus(status string) SearchOption {
	return func(o *searchOpts) { o.status = status }
}

// WithPhase adds a phase term to the query (e.g. "Phase 3").
func WithPhase(phase string) SearchOption {
	return func(o *searchOpts) { o.phase = phase }
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
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new ClinicalTrials.gov client. The API is public and
// needs no credentials.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://clinicaltrials.gov/api/v2",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(3), 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchStudies(ctx context.Context, condition string, opts ...SearchOption) (*SearchResponse, error) {
	so := &searchOpts{pageSize: 10}
	for _, opt := range opts {
		opt(so)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "clinicaltrials: rate limiter")
	}

	q := url.Values{}
	q.Set("query.cond", condition)
	q.Set("pageSize", strconv.Itoa(so.pageSize))
	if so.status != "" {
		q.Set("filter.overallStatus", strings.ToUpper(strings.ReplaceAll(so.status, " ", "_")))
	}
	if so.phase != "" {
		q.Set("query.term", so.phase)
	}

	reqURL := fmt.Sprintf("%s/studies?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "clinicaltrials: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "clinicaltrials: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "clinicaltrials: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("clinicaltrials: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "clinicaltrials: unmarshal response")
	}
	return &result, nil
}
