package csvimport

import (
	"strings"
	"time"
)

// ISODate is the canonical stored date layout
const ISODate = "2006-01-02"

// dateLayouts are tried in order, first match wins. Day-first comes before
// month-first so 01/02/2023 is the 1st of February; MM/DD/YYYY only applies
// when the day-first reading is not a real date (e.g. 12/31/2023).
var dateLayouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"2/1/2006", // DD/MM/YYYY
	"1/2/2006", // MM/DD/YYYY
	"2006/1/2", // YYYY/MM/DD
	"2-1-2006", // DD-MM-YYYY
}

// NormalizeDate converts any supported layout to YYYY-MM-DD.
// It reports false when no layout yields a valid calendar date.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), true
		}
	}
	return "", false
}
