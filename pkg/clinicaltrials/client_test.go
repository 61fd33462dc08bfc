package clinicaltrials

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studiesFixture = `{
	"studies": [
		{
			"protocolSection": {
				"identificationModule": {"nctId": "NCT04512345", "briefTitle": "A Study of Metformin in Type 2 Diabetes"},
				"statusModule": {"overallStatus": "RECRUITING"},
				"designModule": {"phases": ["PHASE3"]},
				"sponsorCollaboratorsModule": {"leadSponsor": {"name": "Mayo Clinic"}},
				"conditionsModule": {"conditions": ["Type 2 Diabetes"]}
			}
		},
		{
			"protocolSection": {
				"identificationModule": {"nctId": "NCT04598765", "briefTitle": "Observational Diabetes Registry"},
				"statusModule": {"overallStatus": "COMPLETED"},
				"designModule": {"phases": ["NA"]},
				"sponsorCollaboratorsModule": {"leadSponsor": {"name": "NIH"}},
				"conditionsModule": {"conditions": ["Diabetes"]}
			}
		}
	],
	"nextPageToken": "abc123"
}`

func TestSearchStudies(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(studiesFixture))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	resp, err := c.SearchStudies(context.Background(), "diabetes",
		WithPageSize(5), WithStatus("Recruiting"))
	require.NoError(t, err)

	assert.Equal(t, "/studies", gotPath)
	assert.Contains(t, gotQuery, "query.cond=diabetes")
	assert.Contains(t, gotQuery, "pageSize=5")
	assert.Contains(t, gotQuery, "filter.overallStatus=RECRUITING")

	require.Len(t, resp.Studies, 2)
	assert.Equal(t, "NCT04512345", resp.Studies[0].ProtocolSection.Identification.NCTID)
	assert.Equal(t, "Phase 3", resp.Studies[0].Phase())
	assert.Equal(t, "N/A", resp.Studies[1].Phase())
	assert.Equal(t, "Mayo Clinic", resp.Studies[0].ProtocolSection.Sponsor.LeadSponsor.Name)
	assert.Equal(t, "abc123", resp.NextPageToken)
}

func TestSearchStudiesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.SearchStudies(context.Background(), "diabetes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestPhaseDisplay(t *testing.T) {
	tests := []struct {
		name   string
		phases []string
		want   string
	}{
		{"empty", nil, "N/A"},
		{"na token", []string{"NA"}, "N/A"},
		{"phase 2", []string{"PHASE2"}, "Phase 2"},
		{"unknown token", []string{"EARLY_PHASE1"}, "EARLY_PHASE1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Study{ProtocolSection: ProtocolSection{Design: DesignModule{Phases: tt.phases}}}
			assert.Equal(t, tt.want, s.Phase())
		})
	}
}
