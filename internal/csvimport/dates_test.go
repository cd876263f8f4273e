package csvimport_test

import (
	"testing"

	"github.com/epeers/stockdata/internal/csvimport"
)

func TestNormalizeDate_SupportedLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso", "2023-01-15", "2023-01-15"},
		{"iso without padding", "2023-1-5", "2023-01-05"},
		{"day first slash", "15/01/2023", "2023-01-15"},
		{"ambiguous slash reads day first", "01/02/2023", "2023-02-01"},
		{"month first when day first is impossible", "12/31/2023", "2023-12-31"},
		{"year first slash", "2023/01/15", "2023-01-15"},
		{"day first dash", "15-01-2023", "2023-01-15"},
		{"surrounding spaces", "  2023-01-15 ", "2023-01-15"},
		{"leap day", "29/02/2024", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := csvimport.NormalizeDate(tt.raw)
			if !ok {
				t.Fatalf("NormalizeDate(%q) failed, want %s", tt.raw, tt.want)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"not-a-date",
		"2023-13-01",
		"31/31/2023",
		"29/02/2023",
		"2023.01.15",
		"15 Jan 2023",
	} {
		if got, ok := csvimport.NormalizeDate(raw); ok {
			t.Errorf("NormalizeDate(%q) = %s, expected failure", raw, got)
		}
	}
}
