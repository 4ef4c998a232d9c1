// Package export writes scored leads as CSV, XLSX, JSON and YAML.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscope/internal/model"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps user input to a Format.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatXLSX, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", eris.Errorf("export: unknown format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// Columns is the header of the qualified lead table.
var Columns = []string{
	"score", "name", "title", "company", "location_details", "email", "score_reasons", "source",
}

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Leads"

// Row returns the table cells for one lead, in Columns order.
func Row(l model.Lead) []string {
	return []string{
		strconv.Itoa(l.Score),
		l.Name,
		l.Title,
		l.Company,
		l.LocationDetails,
		l.Email,
		l.ScoreReasons,
		l.Source.Label(),
	}
}

// Write encodes leads in the given format.
func Write(w io.Writer, f Format, leads []model.Lead) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, leads)
	case FormatXLSX:
		return WriteXLSX(w, leads)
	case FormatJSON:
		return WriteJSON(w, leads)
	case FormatYAML:
		return WriteYAML(w, leads)
	default:
		return eris.Errorf("export: unknown format %q", f)
	}
}

// WriteCSV writes a header row followed by one row per lead.
func WriteCSV(w io.Writer, leads []model.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, l := range leads {
		if err := cw.Write(Row(l)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook. Scores are numeric cells.
func WriteXLSX(w io.Writer, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range Columns {
		header.AddCell().SetString(c)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		for i, v := range Row(l) {
			cell := row.AddCell()
			if i == 0 {
				cell.SetInt(l.Score)
				continue
			}
			cell.SetString(v)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

// WriteYAML writes leads as a YAML sequence.
func WriteYAML(w io.Writer, leads []model.Lead) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(leads); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: close yaml encoder")
	}
	return nil
}
