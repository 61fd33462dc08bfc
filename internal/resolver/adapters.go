package resolver

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/store"
	"github.com/sells-group/pharma-intel/pkg/clinicaltrials"
	"github.com/sells-group/pharma-intel/pkg/openalex"
	"github.com/sells-group/pharma-intel/pkg/patentsview"
)

// SourceClinicalTrials is the chain name for the ClinicalTrials.gov adapter.
const SourceClinicalTrials = "clinicaltrials"

// TrialsAdapter serves the trials category from the ClinicalTrials.gov API.
type TrialsAdapter struct {
	client clinicaltrials.Client
}

// NewTrialsAdapter wraps a ClinicalTrials.gov client. A nil client means the
// source is unconfigured and every fetch reports unavailable.
func NewTrialsAdapter(client clinicaltrials.Client) *TrialsAdapter {
	return &TrialsAdapter{client: client}
}

func (a *TrialsAdapter) Name() string { return SourceClinicalTrials }

func (a *TrialsAdapter) Categories() []model.Category {
	return []model.Category{model.CategoryTrials}
}

func (a *TrialsAdapter) Fetch(ctx context.Context, req Request) (any, error) {
	if a.client == nil {
		return nil, eris.Wrap(ErrUnavailable, "clinicaltrials client not configured")
	}

	opts := []clinicaltrials.SearchOption{clinicaltrials.WithPageSize(req.Limit)}
	if req.Filters.Status != "" {
		opts = append(opts, clinicaltrials.WithStatus(req.Filters.Status))
	}
	if req.Filters.Phase != "" {
		opts = append(opts, clinicaltrials.WithPhase(req.Filters.Phase))
	}

	resp, err := a.client.SearchStudies(ctx, req.Term, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "clinicaltrials search")
	}

	trials := make([]model.ClinicalTrial, 0, len(resp.Studies))
	for _, s := range resp.Studies {
		ps := s.ProtocolSection
		condition := req.Term
		if len(ps.Conditions.Conditions) > 0 {
			condition = ps.Conditions.Conditions[0]
		}
		trials = append(trials, model.ClinicalTrial{
			NCTID:     ps.Identification.NCTID,
			Title:     ps.Identification.BriefTitle,
			Condition: condition,
			Phase:     s.Phase(),
			Status:    ps.Status.OverallStatus,
			Sponsor:   ps.Sponsor.LeadSponsor.Name,
		})
	}
	return trials, nil
}

// SourcePatentsView is the chain name for the PatentsView adapter.
const SourcePatentsView = "patentsview"

// PatentsAdapter serves the patents category from the PatentsView API.
type PatentsAdapter struct {
	client patentsview.Client
}

// NewPatentsAdapter wraps a PatentsView client.
func NewPatentsAdapter(client patentsview.Client) *PatentsAdapter {
	return &PatentsAdapter{client: client}
}

func (a *PatentsAdapter) Name() string { return SourcePatentsView }

func (a *PatentsAdapter) Categories() []model.Category {
	return []model.Category{model.CategoryPatent}
}

func (a *PatentsAdapter) Fetch(ctx context.Context, req Request) (any, error) {
	if a.client == nil {
		return nil, eris.Wrap(ErrUnavailable, "patentsview client not configured")
	}

	resp, err := a.client.SearchPatents(ctx, req.Term, patentsview.WithPerPage(req.Limit))
	if err != nil {
		return nil, eris.Wrap(err, "patentsview search")
	}

	patents := make([]model.Patent, 0, len(resp.Patents))
	for _, p := range resp.Patents {
		assignee := ""
		if len(p.Assignees) > 0 {
			assignee = p.Assignees[0].Organization
		}
		codes := make([]string, 0, len(p.CPCCurrent))
		for _, c := range p.CPCCurrent {
			if c.GroupID != "" {
				codes = append(codes, c.GroupID)
			}
		}
		patents = append(patents, model.Patent{
			PatentID:   "US" + p.PatentID,
			Title:      p.Title,
			Assignee:   assignee,
			FilingDate: p.FilingDate,
			GrantDate:  p.Date,
			ExpiryDate: expiryFromFiling(p.FilingDate),
			IPCCodes:   codes,
		})
	}
	return patents, nil
}

// expiryFromFiling applies the 20-year utility patent term; unparsable
// filing dates leave the expiry blank.
func expiryFromFiling(filing string) string {
	t, err := time.Parse("2006-01-02", filing)
	if err != nil {
		return ""
	}
	return t.AddDate(20, 0, 0).Format("2006-01-02")
}

// SourceOpenAlex is the chain name for the OpenAlex adapter.
const SourceOpenAlex = "openalex"

// WebAdapter serves the web category from OpenAlex scholarly works.
type WebAdapter struct {
	client openalex.Client
}

// NewWebAdapter wraps an OpenAlex client.
func NewWebAdapter(client openalex.Client) *WebAdapter {
	return &WebAdapter{client: client}
}

func (a *WebAdapter) Name() string { return SourceOpenAlex }

func (a *WebAdapter) Categories() []model.Category {
	return []model.Category{model.CategoryWeb}
}

func (a *WebAdapter) Fetch(ctx context.Context, req Request) (any, error) {
	if a.client == nil {
		return nil, eris.Wrap(ErrUnavailable, "openalex client not configured")
	}

	resp, err := a.client.SearchWorks(ctx, req.Term, openalex.WithPerPage(req.Limit))
	if err != nil {
		return nil, eris.Wrap(err, "openalex search")
	}

	results := make([]model.WebResult, 0, len(resp.Results))
	for _, w := range resp.Results {
		link := w.PrimaryLocation.LandingPageURL
		if link == "" {
			link = w.ID
		}
		source := w.PrimaryLocation.Source.DisplayName
		if source == "" {
			source = "OpenAlex"
		}
		results = append(results, model.WebResult{
			Title:   w.DisplayName,
			Snippet: snippetFor(w),
			Link:    link,
			Source:  source,
		})
	}
	return results, nil
}

func snippetFor(w openalex.Work) string {
	if w.PublicationYear > 0 {
		return "Published " + strconv.Itoa(w.PublicationYear) + " in " + orUnknown(w.PrimaryLocation.Source.DisplayName)
	}
	return "Scholarly work indexed by OpenAlex"
}

func orUnknown(s string) string {
	if s == "" {
		return "an unknown venue"
	}
	return s
}

// SourceDocuments is the chain name for the internal document store adapter.
const SourceDocuments = "documents"

// DocsAdapter serves the docs category from the persisted document corpus.
type DocsAdapter struct {
	store store.Store
}

// NewDocsAdapter wraps the document store.
func NewDocsAdapter(st store.Store) *DocsAdapter {
	return &DocsAdapter{store: st}
}

func (a *DocsAdapter) Name() string { return SourceDocuments }

func (a *DocsAdapter) Categories() []model.Category {
	return []model.Category{model.CategoryDocs}
}

func (a *DocsAdapter) Fetch(ctx context.Context, req Request) (any, error) {
	if a.store == nil {
		return nil, eris.Wrap(ErrUnavailable, "document store not configured")
	}
	docs, err := a.store.SearchDocuments(ctx, req.Term, req.Limit)
	if err != nil {
		return nil, eris.Wrap(err, "document search")
	}
	return docs, nil
}
