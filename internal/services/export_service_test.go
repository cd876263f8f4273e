package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/models"
	"github.com/epeers/stockdata/internal/services"
)

type staticExporter struct {
	rows [][]string
	err  error
}

func (s staticExporter) ExportRows(ctx context.Context, spec *models.ImportRowSpec, fn func(record []string) error) error {
	for _, r := range s.rows {
		if err := fn(r); err != nil {
			return err
		}
	}
	return s.err
}

func TestExportCSV_QuotesAndHeader(t *testing.T) {
	svc := services.NewExportService(staticExporter{rows: [][]string{
		{"VIC", "Vingroup", "Real estate, retail"},
		{"HPG", "", ""},
	}})

	var sb strings.Builder
	n, err := svc.ExportCSV(context.Background(), csvimport.Specs["stock_info"], &sb)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
	want := "symbol,name,description\nVIC,Vingroup,\"Real estate, retail\"\nHPG,,\n"
	if sb.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, sb.String())
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	tests := []struct {
		domain  string
		content string
		want    string // a line the first export must contain
	}{
		{"stocks",
			"symbol,date,open,high,low,close,band_dow,band_up,trend_q,fq,qv1\n" +
				"VIC,2023-01-02,1,2,0.5,1.5,,,,,\n" +
				"HPG,02/01/2023,3,4,2.5,3.5,1,2,3,4,5\n",
			"HPG,2023-01-02,3,4,2.5,3.5,1,2,3,4,5"},
		{"stock_info",
			"symbol,name,description\n" +
				"vic,Vingroup,\"Real estate, retail\"\n" +
				"HPG,,\n",
			`VIC,Vingroup,"Real estate, retail"`},
		{"stock_daily",
			"symbol,close_price,return_value,kldd,von_hoa,pe,roa,roe,eps\n" +
				"VIC,\"65,4\",\"-1,25\",\"1.234.567\",,\"15,3\",,,\n",
			`VIC,"65,4","-1,25",1234567,,"15,3",,,`},
		{"stock_assets",
			"symbol,date,tts,vcsh,tb_tts_nganh\n" +
				"VIC,2023-03-31,1000.25,400,\n",
			"VIC,2023-03-31,1000.25,400,"},
		{"stock_eps",
			"symbol,date,eps,eps_nganh\n" +
				"HPG,31-12-2022,-0.75,1.5\n",
			"HPG,2022-12-31,-0.75,1.5"},
		{"stock_metrics",
			"symbol,date,roa,roe,tb_roa_nganh,tb_roe_nganh\n" +
				"VIC,2022/12/31,0.05,0.12,,0.1\n",
			"VIC,2022-12-31,0.05,0.12,,0.1"},
		{"stock_pe",
			"symbol,date,pe,pe_nganh\n" +
				"VIC,2023-01-02,12.5,\n",
			"VIC,2023-01-02,12.5,"},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			env := newTestEnv(t, "VIC", "HPG")
			spec := csvimport.Specs[tt.domain]
			ctx := context.Background()

			if _, err := env.svc.ImportFile(ctx, spec, env.writeUpload(t, tt.content)); err != nil {
				t.Fatalf("first import failed: %v", err)
			}
			exported := env.export(t, tt.domain)
			if !strings.Contains(exported, tt.want+"\n") {
				t.Fatalf("expected export to contain %q, got\n%s", tt.want, exported)
			}

			if _, err := env.svc.ImportFile(ctx, spec, env.writeUpload(t, exported)); err != nil {
				t.Fatalf("re-import of export failed: %v", err)
			}
			if again := env.export(t, tt.domain); again != exported {
				t.Errorf("export changed after re-import:\n%s\nvs\n%s", exported, again)
			}
		})
	}
}

func TestExportCSV_Error(t *testing.T) {
	svc := services.NewExportService(staticExporter{err: errors.New("boom")})
	var sb strings.Builder
	if _, err := svc.ExportCSV(context.Background(), csvimport.Specs["stock_pe"], &sb); err == nil {
		t.Error("expected export error, got nil")
	}
}
