package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/epeers/stockdata/internal/models"
)

// sqliteMaxVars stays below SQLITE_MAX_VARIABLE_NUMBER on older builds
const sqliteMaxVars = 900

// SQLiteRepository serves both the Symbol Registry and the Batch Upsert Engine
// from an embedded SQLite database. The CLI uses it for local imports.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLiteRepository
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetBySymbol retrieves a registry entry by its canonical uppercase symbol
func (r *SQLiteRepository) GetBySymbol(ctx context.Context, symbol string) (*models.StockInfo, error) {
	s := &models.StockInfo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT symbol, name, description FROM stock_info WHERE symbol = ?`,
		strings.ToUpper(symbol),
	).Scan(&s.Symbol, &s.Name, &s.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSymbolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get symbol: %w", err)
	}
	return s, nil
}

// FindExisting returns the subset of symbols present in the registry
func (r *SQLiteRepository) FindExisting(ctx context.Context, symbols []string) ([]string, error) {
	var found []string
	for start := 0; start < len(symbols); start += sqliteMaxVars {
		end := min(start+sqliteMaxVars, len(symbols))
		chunk := symbols[start:end]

		params := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		args := make([]any, len(chunk))
		for i, s := range chunk {
			args[i] = s
		}

		rows, err := r.db.QueryContext(ctx, `SELECT symbol FROM stock_info WHERE symbol IN (`+params+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query symbols: %w", err)
		}
		for rows.Next() {
			var s string
			if err := rows.Scan(&s); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan symbol: %w", err)
			}
			found = append(found, s)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return found, nil
}

// CountSymbols returns the number of registry entries
func (r *SQLiteRepository) CountSymbols(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM stock_info`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count symbols: %w", err)
	}
	return n, nil
}

// UpsertRows writes a batch inside a single transaction. Rows go out as
// multi-row VALUES statements sized to stay under sqliteMaxVars.
func (r *SQLiteRepository) UpsertRows(ctx context.Context, spec *models.ImportRowSpec, rows []models.NormalizedRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	perStmt := max(1, sqliteMaxVars/len(spec.Columns))
	var affected int64
	for start := 0; start < len(rows); start += perStmt {
		chunk := rows[start:min(start+perStmt, len(rows))]
		args := make([]any, 0, len(chunk)*len(spec.Columns))
		for _, row := range chunk {
			rowValues, err := rowArgs(spec, row, false)
			if err != nil {
				return 0, err
			}
			args = append(args, rowValues...)
		}

		res, err := tx.ExecContext(ctx, buildUpsertSQLRows(spec, questionPlaceholder, len(chunk)), args...)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert %s rows %d-%d: %w",
				spec.Table, chunk[0].RowNumber, chunk[len(chunk)-1].RowNumber, err)
		}
		n, _ := res.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s upsert: %w", spec.Table, err)
	}
	return affected, nil
}

// ExportRows streams a domain table in file column order, calling fn per row
func (r *SQLiteRepository) ExportRows(ctx context.Context, spec *models.ImportRowSpec, fn func(record []string) error) error {
	rows, err := r.db.QueryContext(ctx, buildExportSQL(spec))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", spec.Table, err)
	}
	defer rows.Close()

	n := len(spec.Columns)
	for rows.Next() {
		values := make([]any, n)
		ptrs := make([]any, n)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("failed to read %s row: %w", spec.Table, err)
		}
		record := make([]string, n)
		for i, v := range values {
			record[i] = formatCell(v, spec.Numbers)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return rows.Err()
}
