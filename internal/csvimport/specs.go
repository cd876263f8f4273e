package csvimport

import (
	"sort"
	"strings"

	"github.com/epeers/stockdata/internal/models"
)

const (
	fiveMB = 5 << 20
	tenMB  = 10 << 20
)

func textCol(name string) models.Column { return models.Column{Name: name, Kind: models.ColumnText} }
func numberCol(name string) models.Column { return models.Column{Name: name, Kind: models.ColumnNumber} }
func dateCol(name string) models.Column { return models.Column{Name: name, Kind: models.ColumnDate} }

// Specs holds one ImportRowSpec per domain, keyed by domain name.
// stock_info is the Symbol Registry itself so it does not check symbols against it.
var Specs = map[string]*models.ImportRowSpec{
	"stocks": {
		Domain: "stocks",
		Table:  "stocks",
		Route:  "stocks",
		Columns: []models.Column{
			textCol("symbol"), dateCol("date"),
			numberCol("open"), numberCol("high"), numberCol("low"), numberCol("close"),
			numberCol("band_dow"), numberCol("band_up"), numberCol("trend_q"), numberCol("fq"), numberCol("qv1"),
		},
		NaturalKey:         []string{"symbol", "date"},
		RequireKnownSymbol: true,
		Numbers:            models.NumberFormatPlain,
		MaxUploadBytes:     fiveMB,
	},
	"stock_info": {
		Domain:         "stock_info",
		Table:          "stock_info",
		Route:          "stock-info",
		Columns:        []models.Column{textCol("symbol"), textCol("name"), textCol("description")},
		NaturalKey:     []string{"symbol"},
		Numbers:        models.NumberFormatPlain,
		MaxUploadBytes: tenMB,
	},
	"stock_daily": {
		Domain: "stock_daily",
		Table:  "stock_daily",
		Route:  "stock-daily",
		Columns: []models.Column{
			textCol("symbol"), numberCol("close_price"), numberCol("return_value"), numberCol("kldd"),
			numberCol("von_hoa"), numberCol("pe"), numberCol("roa"), numberCol("roe"), numberCol("eps"),
		},
		NaturalKey:         []string{"symbol"},
		Required:           []string{"close_price"},
		RequireKnownSymbol: true,
		Numbers:            models.NumberFormatVietnamese,
		MaxUploadBytes:     fiveMB,
	},
	"stock_assets": {
		Domain:             "stock_assets",
		Table:              "stock_assets",
		Route:              "stock-assets",
		Columns:            []models.Column{textCol("symbol"), dateCol("date"), numberCol("tts"), numberCol("vcsh"), numberCol("tb_tts_nganh")},
		NaturalKey:         []string{"symbol", "date"},
		RequireKnownSymbol: true,
		Numbers:            models.NumberFormatPlain,
		MaxUploadBytes:     tenMB,
	},
	"stock_eps": {
		Domain:             "stock_eps",
		Table:              "stock_eps",
		Route:              "stock-eps",
		Columns:            []models.Column{textCol("symbol"), dateCol("date"), numberCol("eps"), numberCol("eps_nganh")},
		NaturalKey:         []string{"symbol", "date"},
		RequireKnownSymbol: true,
		Numbers:            models.NumberFormatPlain,
		MaxUploadBytes:     tenMB,
	},
	"stock_metrics": {
		Domain: "stock_metrics",
		Table:  "stock_metrics",
		Route:  "stock-metrics",
		Columns: []models.Column{
			textCol("symbol"), dateCol("date"), numberCol("roa"), numberCol("roe"), numberCol("tb_roa_nganh"), numberCol("tb_roe_nganh"),
		},
		NaturalKey:         []string{"symbol", "date"},
		RequireKnownSymbol: true,
		Numbers:            models.NumberFormatPlain,
		MaxUploadBytes:     tenMB,
	},
	"stock_pe": {
		Domain:             "stock_pe",
		Table:              "stock_pe",
		Route:              "stock-pe",
		Columns:            []models.Column{textCol("symbol"), dateCol("date"), numberCol("pe"), numberCol("pe_nganh")},
		NaturalKey:         []string{"symbol", "date"},
		RequireKnownSymbol: true,
		Numbers:            models.NumberFormatPlain,
		MaxUploadBytes:     tenMB,
	},
}

// Lookup finds a spec by domain name ("stock_pe") or route ("stock-pe")
func Lookup(name string) (*models.ImportRowSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if s, ok := Specs[name]; ok {
		return s, true
	}
	for _, s := range Specs {
		if s.Route == name {
			return s, true
		}
	}
	return nil, false
}

// All returns the specs sorted by domain name
func All() []*models.ImportRowSpec {
	out := make([]*models.ImportRowSpec, 0, len(Specs))
	for _, s := range Specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}
