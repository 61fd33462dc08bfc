package report

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pharma-intel/internal/model"
)

// renderExcel produces a workbook with a summary sheet followed by one sheet
// per section.
func renderExcel(query string, sections model.SectionMap, metadata model.ReportMetadata) ([]byte, error) {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, query, sections, metadata); err != nil {
		return nil, err
	}

	used := map[string]bool{"Summary": true}
	for _, sec := range sections {
		sheet, err := f.AddSheet(sheetName(sec.Name, used))
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: add sheet %s", sec.Name)
		}
		if records := model.Records(sec.Value); records != nil {
			writeRecordSheet(sheet, records)
		} else {
			writeAggregateSheet(sheet, sec.Value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "xlsx: write workbook")
	}
	return buf.Bytes(), nil
}

func addSummarySheet(f *xlsx.File, query string, sections model.SectionMap, metadata model.ReportMetadata) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "xlsx: add summary sheet")
	}

	addKV(sheet, "Query", query)
	addKV(sheet, "Generated", metadata.GeneratedAt.Format(textTimeLayout))
	addKV(sheet, "Sections", strings.Join(metadata.SectionNames, ", "))
	addKV(sheet, "Data points", strconv.Itoa(metadata.DataPointCount))
	sheet.AddRow()

	header := sheet.AddRow()
	header.AddCell().Value = "Key Findings"
	for _, finding := range keyFindings(sections) {
		sheet.AddRow().AddCell().Value = finding
	}
	return nil
}

func writeRecordSheet(sheet *xlsx.Sheet, records []any) {
	if len(records) == 0 {
		return
	}

	header := sheet.AddRow()
	for _, label := range recordLabels(records[0]) {
		header.AddCell().Value = label
	}
	for _, rec := range records {
		row := sheet.AddRow()
		for _, f := range recordFields(rec) {
			row.AddCell().Value = f.Value
		}
	}
}

func writeAggregateSheet(sheet *xlsx.Sheet, value any) {
	mi, ok := asMarketIntel(value)
	if !ok {
		for _, f := range recordFields(value) {
			addKV(sheet, f.Label, f.Value)
		}
		return
	}

	for _, f := range recordFields(mi.Stats) {
		addKV(sheet, f.Label, f.Value)
	}
	sheet.AddRow()

	sheet.AddRow().AddCell().Value = "Competitors"
	writeRecordSheet(sheet, model.Records(mi.Competitors))
	sheet.AddRow()

	sheet.AddRow().AddCell().Value = "Trends"
	writeRecordSheet(sheet, model.Records(mi.Trends))
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

// sheetName fits a section name into Excel's 31-character limit and dedupes
// collisions.
func sheetName(name string, used map[string]bool) string {
	const maxLen = 31
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	candidate := name
	for i := 2; used[candidate]; i++ {
		suffix := " " + strconv.Itoa(i)
		candidate = name
		if len(candidate)+len(suffix) > maxLen {
			candidate = candidate[:maxLen-len(suffix)]
		}
		candidate += suffix
	}
	used[candidate] = true
	return candidate
}
