package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/model"
)

// ErrNotFound is returned when a report or document does not exist. Callers
// match it with eris.Is.
var ErrNotFound = eris.New("not found")

// ReportFilter specifies criteria for listing stored reports.
type ReportFilter struct {
	Query  string       `json:"query,omitempty"`
	Format model.Format `json:"report_type,omitempty"`
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

// Store defines persistence for rendered reports and the internal document
// corpus.
type Store interface {
	// Reports
	SaveReport(ctx context.Context, artifact *model.ReportArtifact) error
	GetReport(ctx context.Context, reportID string) (*model.ReportArtifact, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]model.ReportSummary, error)
	IncrementDownloads(ctx context.Context, reportID string) error

	// Internal documents
	UploadDocument(ctx context.Context, doc model.InternalDoc, content string) error
	SearchDocuments(ctx context.Context, term string, limit int) ([]model.InternalDoc, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
