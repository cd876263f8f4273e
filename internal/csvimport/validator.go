package csvimport

import (
	"fmt"

	"github.com/epeers/stockdata/internal/models"
)

// Rejection reasons. Each reason is followed by the offending column or value.
const (
	ReasonMissingField  = "missing required field"
	ReasonUnknownSymbol = "symbol not found in system"
	ReasonInvalidDate   = "invalid date"
	ReasonMalformedRow  = "malformed CSV row"
)

// Validate checks one normalized row. known holds the registry result for the
// row's symbol set and is consulted only when the spec requires referential
// integrity. Checks run in order and the first failure wins:
//  1. natural-key columns present
//  2. symbol known to the registry
//  3. key date is a valid calendar date
//  4. required non-key columns present
//
// It returns nil when the row is accepted.
func Validate(row models.NormalizedRow, spec *models.ImportRowSpec, known map[string]bool) *models.RejectedRow {
	reject := func(format string, args ...any) *models.RejectedRow {
		return &models.RejectedRow{RowNumber: row.RowNumber, Reason: fmt.Sprintf(format, args...)}
	}

	for _, key := range spec.NaturalKey {
		if _, bad := row.InvalidDates[key]; bad {
			// present but malformed, reported by check 3
			continue
		}
		if _, ok := row.Text(key); !ok {
			return reject("%s: %s", ReasonMissingField, key)
		}
	}

	if spec.RequireKnownSymbol {
		symbol, _ := row.Text("symbol")
		if !known[symbol] {
			return reject("%s: %s", ReasonUnknownSymbol, symbol)
		}
	}

	for _, key := range spec.NaturalKey {
		if raw, bad := row.InvalidDates[key]; bad {
			return reject("%s: %q in column %s", ReasonInvalidDate, raw, key)
		}
	}

	for _, col := range spec.Required {
		if !present(row, spec, col) {
			return reject("%s: %s", ReasonMissingField, col)
		}
	}
	return nil
}

func present(row models.NormalizedRow, spec *models.ImportRowSpec, col string) bool {
	c, ok := spec.Column(col)
	if !ok {
		return false
	}
	if c.Kind == models.ColumnNumber {
		return row.Number(col).Valid
	}
	_, ok = row.Text(col)
	return ok
}
