package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/database"
	"github.com/epeers/stockdata/internal/models"
)

// getTestDB connects to PG_URL and applies migrations, skipping when no server is configured
func getTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		t.Skip("PG_URL environment variable not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, pgURL)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestPostgres_UpsertAndRegistry(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	const sym = "TSTPGUP"

	cleanup := func() {
		db.Pool.Exec(ctx, `DELETE FROM stock_pe WHERE symbol = $1`, sym)
		db.Pool.Exec(ctx, `DELETE FROM stock_info WHERE symbol = $1`, sym)
	}
	cleanup()
	defer cleanup()

	stockData := NewStockDataRepository(db.Pool)
	symbols := NewSymbolRepository(db.Pool)

	info := csvimport.Normalize(1, models.RawRow{"symbol": sym, "name": "Test Co"}, csvimport.Specs["stock_info"])
	if _, err := stockData.UpsertRows(ctx, csvimport.Specs["stock_info"], []models.NormalizedRow{info}); err != nil {
		t.Fatalf("stock_info upsert failed: %v", err)
	}

	found, err := symbols.FindExisting(ctx, []string{sym, "TSTPGNONE"})
	if err != nil {
		t.Fatalf("FindExisting failed: %v", err)
	}
	if len(found) != 1 || found[0] != sym {
		t.Errorf("expected [%s], got %v", sym, found)
	}

	spec := csvimport.Specs["stock_pe"]
	first := csvimport.Normalize(1, models.RawRow{"symbol": sym, "date": "2023-01-01", "pe": "10.5", "pe_nganh": "12"}, spec)
	second := csvimport.Normalize(1, models.RawRow{"symbol": sym, "date": "01/01/2023", "pe": "11", "pe_nganh": ""}, spec)
	for _, row := range []models.NormalizedRow{first, second} {
		if _, err := stockData.UpsertRows(ctx, spec, []models.NormalizedRow{row}); err != nil {
			t.Fatalf("stock_pe upsert failed: %v", err)
		}
	}

	var pe float64
	var peNganh *float64
	var count int
	err = db.Pool.QueryRow(ctx,
		`SELECT pe, pe_nganh, (SELECT count(*) FROM stock_pe WHERE symbol = $1) FROM stock_pe WHERE symbol = $1 AND date = '2023-01-01'`,
		sym,
	).Scan(&pe, &peNganh, &count)
	if err != nil {
		t.Fatalf("failed to read back row: %v", err)
	}
	if count != 1 || pe != 11 || peNganh != nil {
		t.Errorf("expected one row with pe=11 and NULL pe_nganh, got count=%d pe=%v pe_nganh=%v", count, pe, peNganh)
	}
}
