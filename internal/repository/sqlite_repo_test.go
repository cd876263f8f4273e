package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/database"
	"github.com/epeers/stockdata/internal/models"
)

func newTestSQLite(t *testing.T) (*sql.DB, *SQLiteRepository) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.MigrateSQLite(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewSQLiteRepository(db)
}

func normalized(t *testing.T, domain string, n int, raw models.RawRow) models.NormalizedRow {
	t.Helper()
	return csvimport.Normalize(n, raw, csvimport.Specs[domain])
}

func exportAll(t *testing.T, repo *SQLiteRepository, domain string) [][]string {
	t.Helper()
	var out [][]string
	err := repo.ExportRows(context.Background(), csvimport.Specs[domain], func(record []string) error {
		out = append(out, record)
		return nil
	})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	return out
}

func TestSQLiteRepository_SymbolRegistry(t *testing.T) {
	db, repo := newTestSQLite(t)
	ctx := context.Background()

	if n, err := repo.CountSymbols(ctx); err != nil || n != 0 {
		t.Fatalf("expected empty registry, got %d, %v", n, err)
	}

	if _, err := db.Exec(`INSERT INTO stock_info (symbol, name) VALUES ('VIC', 'Vingroup'), ('HPG', NULL)`); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	found, err := repo.FindExisting(ctx, []string{"VIC", "XYZ", "HPG"})
	if err != nil {
		t.Fatalf("FindExisting failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 symbols, got %v", found)
	}

	info, err := repo.GetBySymbol(ctx, "vic")
	if err != nil {
		t.Fatalf("GetBySymbol failed: %v", err)
	}
	if info.Symbol != "VIC" || info.Name == nil || *info.Name != "Vingroup" || info.Description != nil {
		t.Errorf("unexpected entry: %+v", info)
	}

	if _, err := repo.GetBySymbol(ctx, "XYZ"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
	if n, _ := repo.CountSymbols(ctx); n != 2 {
		t.Errorf("expected 2 symbols, got %d", n)
	}
}

func TestSQLiteRepository_FindExistingChunks(t *testing.T) {
	db, repo := newTestSQLite(t)
	if _, err := db.Exec(`INSERT INTO stock_info (symbol) VALUES ('S0'), ('S1999')`); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	symbols := make([]string, 2000)
	for i := range symbols {
		symbols[i] = "S" + strconv.Itoa(i)
	}
	found, err := repo.FindExisting(context.Background(), symbols)
	if err != nil {
		t.Fatalf("FindExisting failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 symbols across chunks, got %v", found)
	}
}

func TestSQLiteRepository_UpsertIsIdempotent(t *testing.T) {
	_, repo := newTestSQLite(t)
	ctx := context.Background()
	spec := csvimport.Specs["stock_pe"]

	rows := []models.NormalizedRow{
		normalized(t, "stock_pe", 1, models.RawRow{"symbol": "VIC", "date": "2023-01-01", "pe": "10.5", "pe_nganh": "12"}),
		normalized(t, "stock_pe", 2, models.RawRow{"symbol": "HPG", "date": "15/01/2023", "pe": "8", "pe_nganh": ""}),
	}

	for i := 0; i < 2; i++ {
		if _, err := repo.UpsertRows(ctx, spec, rows); err != nil {
			t.Fatalf("upsert %d failed: %v", i+1, err)
		}
	}

	got := exportAll(t, repo, "stock_pe")
	want := [][]string{
		{"HPG", "2023-01-15", "8", ""},
		{"VIC", "2023-01-01", "10.5", "12"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), got)
	}
	for i := range want {
		if strings.Join(got[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSQLiteRepository_UpsertOverwritesWithNull(t *testing.T) {
	_, repo := newTestSQLite(t)
	ctx := context.Background()
	spec := csvimport.Specs["stock_assets"]

	first := normalized(t, "stock_assets", 1, models.RawRow{"symbol": "VIC", "date": "2023-03-31", "tts": "100", "vcsh": "40", "tb_tts_nganh": "55"})
	second := normalized(t, "stock_assets", 1, models.RawRow{"symbol": "VIC", "date": "2023-03-31", "tts": "120", "vcsh": "", "tb_tts_nganh": ""})

	if _, err := repo.UpsertRows(ctx, spec, []models.NormalizedRow{first}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if _, err := repo.UpsertRows(ctx, spec, []models.NormalizedRow{second}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got := exportAll(t, repo, "stock_assets")
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %v", got)
	}
	if strings.Join(got[0], ",") != "VIC,2023-03-31,120,," {
		t.Errorf("expected blank cells to overwrite with NULL, got %v", got[0])
	}
}

func TestSQLiteRepository_UpsertSpansStatements(t *testing.T) {
	_, repo := newTestSQLite(t)
	ctx := context.Background()
	spec := csvimport.Specs["stock_pe"]

	// more rows than one statement's variable budget holds
	total := sqliteMaxVars/len(spec.Columns)*2 + 7
	rows := make([]models.NormalizedRow, total)
	for i := range rows {
		rows[i] = normalized(t, "stock_pe", i+1, models.RawRow{
			"symbol": "S" + strconv.Itoa(i), "date": "2023-01-01", "pe": strconv.Itoa(i), "pe_nganh": "",
		})
	}

	n, err := repo.UpsertRows(ctx, spec, rows)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if n != int64(total) {
		t.Errorf("expected %d rows affected, got %d", total, n)
	}
	got := exportAll(t, repo, "stock_pe")
	if len(got) != total {
		t.Fatalf("expected %d stored rows, got %d", total, len(got))
	}
}

func TestSQLiteRepository_UpsertEmptyBatch(t *testing.T) {
	_, repo := newTestSQLite(t)
	n, err := repo.UpsertRows(context.Background(), csvimport.Specs["stocks"], nil)
	if err != nil || n != 0 {
		t.Errorf("expected 0, nil for empty batch, got %d, %v", n, err)
	}
}

func TestSQLiteRepository_UpsertFailureCommitsNothing(t *testing.T) {
	_, repo := newTestSQLite(t)
	ctx := context.Background()
	spec := csvimport.Specs["stock_daily"]

	good := normalized(t, "stock_daily", 1, models.RawRow{"symbol": "VIC", "close_price": "45,5"})
	// bypasses the validator: close_price is NOT NULL in the table
	bad := normalized(t, "stock_daily", 2, models.RawRow{"symbol": "HPG", "close_price": ""})

	if _, err := repo.UpsertRows(ctx, spec, []models.NormalizedRow{good, bad}); err == nil {
		t.Fatal("expected constraint violation, got nil")
	}
	if got := exportAll(t, repo, "stock_daily"); len(got) != 0 {
		t.Errorf("expected no committed rows, got %v", got)
	}
}
