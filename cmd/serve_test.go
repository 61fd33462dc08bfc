package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pharma-intel/internal/extract"
	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/report"
	"github.com/sells-group/pharma-intel/internal/resolver"
	"github.com/sells-group/pharma-intel/internal/store"
	"github.com/sells-group/pharma-intel/internal/synthetic"
)

// newTestRouter wires a full API against a temp sqlite store with an empty
// provider registry, so every category resolves through the synthetic
// fallback.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(t.Context()))
	t.Cleanup(func() { st.Close() })

	extractor, err := extract.New(extract.DefaultConfig())
	require.NoError(t, err)

	r := resolver.New(resolver.NewRegistry(), synthetic.New(nil), extractor)
	env := &reportEnv{
		store:        st,
		resolver:     r,
		orchestrator: resolver.NewOrchestrator(r),
		engine:       report.NewEngine(),
	}

	return newRouter(env, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestRouterDataTrials(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/data/trials?q=diabetes+research&limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Category string                `json:"category"`
		Source   string                `json:"source"`
		Records  []model.ClinicalTrial `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "trials", resp.Category)
	assert.Equal(t, model.SourceSynthetic, resp.Source)
	assert.Len(t, resp.Records, 5)
}

func TestRouterDataTradeIncludesTrends(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/data/trade?hs_code=3004", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Records []model.TradePartner `json:"records"`
		Trends  []model.TradeTrend   `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Records)
	assert.Len(t, resp.Trends, 5)
}

func TestRouterDataValidation(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/data/bogus?q=x", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/data/trials", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "q is required")

	rr = doJSON(t, router, http.MethodGet, "/api/data/trials?q=diabetes&limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouterReportLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/reports", map[string]any{
		"query":       "oncology pipeline research",
		"report_type": "text",
		"categories":  []string{"trials", "market"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created model.ReportArtifact
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.FormatText, created.Format)
	assert.Equal(t, []string{"Clinical Trials", "Market Intelligence"}, created.Metadata.SectionNames)

	rr = doJSON(t, router, http.MethodGet, "/api/reports?query=oncology", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []model.ReportSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, 0, listed[0].Downloads)

	rr = doJSON(t, router, http.MethodGet, "/api/reports/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/reports/"+created.ID+"/download", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), created.ID+".txt")
	assert.Contains(t, rr.Body.String(), "PHARMACEUTICAL RESEARCH INTELLIGENCE REPORT")

	rr = doJSON(t, router, http.MethodGet, "/api/reports?query=oncology", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].Downloads)
}

func TestRouterReportValidation(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/reports", map[string]any{
		"query":       "diabetes",
		"report_type": "csv",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid report format")

	rr = doJSON(t, router, http.MethodPost, "/api/reports", map[string]any{
		"report_type": "text",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "query is required")
}

func TestRouterReportNotFound(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/reports/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/reports/nope/download", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterDocuments(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/documents", map[string]string{
		"title":   "GLP-1 formulation notes",
		"content": "Internal notes on semaglutide formulation stability trials.",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var doc model.InternalDoc
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.DocID)
	assert.Equal(t, "api", doc.UploadedBy)

	rr = doJSON(t, router, http.MethodGet, "/api/documents?q=semaglutide", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var docs []model.InternalDoc
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, doc.DocID, docs[0].DocID)

	rr = doJSON(t, router, http.MethodPost, "/api/documents", map[string]string{"title": "no content"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExcerptTruncates(t *testing.T) {
	long := ""
	for range 50 {
		long += "formulation stability "
	}
	got := excerpt(long)
	assert.Len(t, got, docExcerptLen+3)
	assert.True(t, len(got) < len(long))

	assert.Equal(t, "short note", excerpt("  short\n note "))
}

func TestExcerptKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("médicament à libération prolongée ", 20)
	got := excerpt(long)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), docExcerptLen+3)
}
