package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/epeers/stockdata/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SymbolRepository reads the Symbol Registry (stock_info) from Postgres.
// The import pipeline never writes through it.
type SymbolRepository struct {
	pool *pgxpool.Pool
}

// NewSymbolRepository creates a new SymbolRepository
func NewSymbolRepository(pool *pgxpool.Pool) *SymbolRepository {
	return &SymbolRepository{pool: pool}
}

// GetBySymbol retrieves a registry entry by its canonical uppercase symbol
func (r *SymbolRepository) GetBySymbol(ctx context.Context, symbol string) (*models.StockInfo, error) {
	query := `
		SELECT symbol, name, description
		FROM stock_info
		WHERE symbol = $1
	`
	s := &models.StockInfo{}
	err := r.pool.QueryRow(ctx, query, strings.ToUpper(symbol)).Scan(&s.Symbol, &s.Name, &s.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSymbolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get symbol: %w", err)
	}
	return s, nil
}

// FindExisting returns the subset of symbols present in the registry.
// Symbols must already be uppercase.
func (r *SymbolRepository) FindExisting(ctx context.Context, symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	query := `
		SELECT symbol
		FROM stock_info
		WHERE symbol = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		found = append(found, s)
	}
	return found, rows.Err()
}

// CountSymbols returns the number of registry entries
func (r *SymbolRepository) CountSymbols(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM stock_info`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count symbols: %w", err)
	}
	return n, nil
}
