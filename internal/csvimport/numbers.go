package csvimport

import (
	"strings"

	"github.com/epeers/stockdata/internal/models"
	"github.com/shopspring/decimal"
)

// ParseNumber coerces a cell using the domain's number format.
// Empty or unparseable input yields an invalid NullDecimal, never an error:
// malformed non-key numerics are stored as NULL.
func ParseNumber(raw string, format models.NumberFormat) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}

	switch format {
	case models.NumberFormatVietnamese:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, " ", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
