// Package report turns resolved sections into stored report artifacts in
// text, excel, and pdf renderings. Metadata is computed once per synthesis
// call, so the same sections yield identical metadata in every format.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/model"
)

// Engine synthesizes report artifacts.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// WithNow sets a fixed clock for testing.
func (e *Engine) WithNow(fn func() time.Time) *Engine {
	e.now = fn
	return e
}

// Synthesize renders one report. Empty sections are dropped before any
// counting so metadata and every rendering agree on section names and data
// points. An unknown format is an error; nothing is rendered or stored.
func (e *Engine) Synthesize(query string, sections model.SectionMap, format model.Format) (*model.ReportArtifact, error) {
	if _, err := model.ParseFormat(string(format)); err != nil {
		return nil, err
	}

	filtered := sections.FilterEmpty()
	metadata := model.ReportMetadata{
		SectionNames:   filtered.Names(),
		DataPointCount: filtered.DataPoints(),
		GeneratedAt:    e.now().UTC(),
	}

	summary := renderText(query, filtered, metadata)

	var body []byte
	var err error
	switch format {
	case model.FormatText:
		body = []byte(summary)
	case model.FormatExcel:
		body, err = renderExcel(query, filtered, metadata)
	case model.FormatPDF:
		body, err = renderPDF(query, filtered, metadata)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "render %s report", format)
	}

	return &model.ReportArtifact{
		ID:       uuid.New().String(),
		Query:    query,
		Format:   format,
		Summary:  summary,
		Body:     body,
		Metadata: metadata,
	}, nil
}
