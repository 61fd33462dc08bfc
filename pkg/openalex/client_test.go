package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worksFixture = `{
	"meta": {"count": 2},
	"results": [
		{
			"id": "https://openalex.org/W100",
			"display_name": "GLP-1 receptor agonists in type 2 diabetes",
			"doi": "https://doi.org/10.1000/xyz",
			"publication_year": 2024,
			"primary_location": {
				"landing_page_url": "https://example.org/glp1",
				"source": {"display_name": "The Lancet"}
			}
		},
		{
			"id": "https://openalex.org/W200",
			"display_name": "Metformin revisited",
			"publication_year": 2023,
			"primary_location": {"source": {"display_name": "Nature Medicine"}}
		}
	]
}`

func TestSearchWorks(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(worksFixture))
	}))
	defer srv.Close()

	c := NewClient("ops@example.com", WithBaseURL(srv.URL), WithRateLimit(1000))
	resp, err := c.SearchWorks(context.Background(), "diabetes treatment", WithPerPage(5))
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "search=diabetes+treatment")
	assert.Contains(t, gotQuery, "per-page=5")
	assert.Contains(t, gotQuery, "mailto=ops%40example.com")

	assert.Equal(t, 2, resp.Meta.Count)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "GLP-1 receptor agonists in type 2 diabetes", resp.Results[0].DisplayName)
	assert.Equal(t, "The Lancet", resp.Results[0].PrimaryLocation.Source.DisplayName)
	assert.Empty(t, resp.Results[1].PrimaryLocation.LandingPageURL)
}

func TestSearchWorksAnonymousPool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotContains(t, r.URL.RawQuery, "mailto")
		_, _ = w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	resp, err := c.SearchWorks(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchWorksRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.SearchWorks(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
