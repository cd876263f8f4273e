package repository

import (
	"context"
	"fmt"

	"github.com/epeers/stockdata/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockDataRepository is the Postgres Batch Upsert Engine for every import domain
type StockDataRepository struct {
	pool *pgxpool.Pool
}

// NewStockDataRepository creates a new StockDataRepository
func NewStockDataRepository(pool *pgxpool.Pool) *StockDataRepository {
	return &StockDataRepository{pool: pool}
}

// UpsertRows writes a batch in one transaction and one round-trip.
// Rows whose natural key exists get every non-key column overwritten.
// Any failing row aborts the whole batch; nothing is committed.
func (r *StockDataRepository) UpsertRows(ctx context.Context, spec *models.ImportRowSpec, rows []models.NormalizedRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := buildUpsertSQL(spec, dollarPlaceholder)
	batch := &pgx.Batch{}
	for _, row := range rows {
		args, err := rowArgs(spec, row, true)
		if err != nil {
			return 0, err
		}
		batch.Queue(query, args...)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	var affected int64
	for _, row := range rows {
		ct, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to upsert %s row %d: %w", spec.Table, row.RowNumber, err)
		}
		affected += ct.RowsAffected()
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit %s upsert: %w", spec.Table, err)
	}
	return affected, nil
}

// ExportRows streams a domain table in file column order, calling fn per row
func (r *StockDataRepository) ExportRows(ctx context.Context, spec *models.ImportRowSpec, fn func(record []string) error) error {
	rows, err := r.pool.Query(ctx, buildExportSQL(spec))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", spec.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("failed to read %s row: %w", spec.Table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatCell(v, spec.Numbers)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return rows.Err()
}
