package csvimport

import (
	"strings"

	"github.com/epeers/stockdata/internal/models"
)

// Normalize applies the spec's type rules to a raw row.
// Symbols are trimmed and uppercased. Numbers follow the domain's number
// format and become NULL when unparseable. Dates are rewritten to YYYY-MM-DD;
// a date that matches no layout is recorded in InvalidDates and left for the
// validator to reject, so the parser itself never drops a row.
func Normalize(rowNumber int, raw models.RawRow, spec *models.ImportRowSpec) models.NormalizedRow {
	row := models.NormalizedRow{
		RowNumber: rowNumber,
		Values:    make(map[string]any, len(spec.Columns)),
	}

	for _, col := range spec.Columns {
		cell := strings.TrimSpace(raw[col.Name])

		switch col.Kind {
		case models.ColumnNumber:
			row.Values[col.Name] = ParseNumber(cell, spec.Numbers)
		case models.ColumnDate:
			if cell == "" {
				row.Values[col.Name] = nil
				continue
			}
			iso, ok := NormalizeDate(cell)
			if !ok {
				if row.InvalidDates == nil {
					row.InvalidDates = make(map[string]string)
				}
				row.InvalidDates[col.Name] = cell
				row.Values[col.Name] = nil
				continue
			}
			row.Values[col.Name] = iso
		default:
			if col.Name == "symbol" {
				cell = strings.ToUpper(cell)
			}
			if cell == "" {
				row.Values[col.Name] = nil
				continue
			}
			row.Values[col.Name] = cell
		}
	}
	return row
}

// NaturalKey returns the row's natural key joined with '|'
func NaturalKey(row models.NormalizedRow, spec *models.ImportRowSpec) string {
	parts := make([]string, len(spec.NaturalKey))
	for i, k := range spec.NaturalKey {
		parts[i], _ = row.Text(k)
	}
	return strings.Join(parts, "|")
}
