package report

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/model"
)

// renderPDF produces a paginated report with a title block, key findings,
// and one subsection per section.
func renderPDF(query string, sections model.SectionMap, metadata model.ReportMetadata) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, "Pharmaceutical Research Intelligence Report", "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdfKV(pdf, "Query", query)
	pdfKV(pdf, "Generated", metadata.GeneratedAt.Format(textTimeLayout))
	pdfKV(pdf, "Sections", strings.Join(metadata.SectionNames, ", "))
	pdfKV(pdf, "Data points", strconv.Itoa(metadata.DataPointCount))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, "Key Findings", "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	for _, finding := range keyFindings(sections) {
		pdf.MultiCell(0, 5, "- "+finding, "", "L", false)
	}
	pdf.Ln(4)

	for _, sec := range sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, sec.Name, "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		writeSectionPDF(pdf, sec.Value)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "pdf: output")
	}
	return buf.Bytes(), nil
}

// writeSectionPDF mirrors the text rendering: record count plus a single
// example record per section.
func writeSectionPDF(pdf *fpdf.Fpdf, value any) {
	if records := model.Records(value); records != nil {
		pdf.MultiCell(0, 5, "Found "+strconv.Itoa(len(records))+" records", "", "L", false)
		if len(records) == 0 {
			return
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.MultiCell(0, 5, "Example", "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		for _, f := range recordFields(records[0]) {
			pdf.MultiCell(0, 4.5, f.Label+": "+f.Value, "", "L", false)
		}
		pdf.Ln(1.5)
		return
	}

	mi, ok := asMarketIntel(value)
	if !ok {
		for _, f := range recordFields(value) {
			pdf.MultiCell(0, 4.5, f.Label+": "+f.Value, "", "L", false)
		}
		return
	}

	for _, f := range recordFields(mi.Stats) {
		pdf.MultiCell(0, 4.5, f.Label+": "+f.Value, "", "L", false)
	}
	pdf.Ln(1.5)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.MultiCell(0, 5, "Competitors", "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	for _, c := range mi.Competitors {
		pdf.MultiCell(0, 4.5, c.Name+" (share "+c.MarketShare+", revenue "+c.Revenue+")", "", "L", false)
	}
	pdf.Ln(1.5)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.MultiCell(0, 5, "Trends", "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	for _, tr := range mi.Trends {
		pdf.MultiCell(0, 4.5, strconv.Itoa(tr.Rank)+". "+tr.Trend+" (impact "+strconv.Itoa(tr.ImpactScore)+")", "", "L", false)
	}
}

func pdfKV(pdf *fpdf.Fpdf, key, value string) {
	pdf.MultiCell(0, 5, key+": "+value, "", "L", false)
}
