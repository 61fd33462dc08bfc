package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Format selects a report rendering.
type Format string

const (
	FormatText  Format = "text"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// ErrInvalidFormat is returned for an unrecognized report format. The engine
// fails closed rather than defaulting to text.
var ErrInvalidFormat = eris.New("invalid report format")

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatPDF, FormatExcel:
		return f, nil
	default:
		return "", eris.Wrapf(ErrInvalidFormat, "%q (use %q, %q, or %q)", s, FormatText, FormatPDF, FormatExcel)
	}
}

// ContentType returns the MIME type for a rendered body.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for a rendered body.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatExcel:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// ReportMetadata is the aggregate metadata computed once per synthesis call.
// It is identical across formats for identical input.
type ReportMetadata struct {
	SectionNames   []string  `json:"sections"`
	DataPointCount int       `json:"data_points"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// ReportArtifact is the immutable rendered output of one synthesis call.
// Summary carries the text rendering; Body carries the binary payload for
// pdf/excel (and the summary bytes for text).
type ReportArtifact struct {
	ID       string         `json:"report_id"`
	Query    string         `json:"query"`
	Format   Format         `json:"report_type"`
	Summary  string         `json:"summary,omitempty"`
	Body     []byte         `json:"-"`
	Metadata ReportMetadata `json:"metadata"`
}

// ReportSummary is the listing row for stored reports.
type ReportSummary struct {
	ID          string         `json:"report_id"`
	Query       string         `json:"query"`
	Format      Format         `json:"report_type"`
	Metadata    ReportMetadata `json:"metadata"`
	Downloads   int            `json:"downloads"`
	GeneratedAt time.Time      `json:"generated_at"`
}
