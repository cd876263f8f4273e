package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/epeers/stockdata/internal/database"
	"github.com/epeers/stockdata/internal/models"
	log "github.com/sirupsen/logrus"
)

// SymbolStore is the Symbol Registry side of a backend
type SymbolStore interface {
	GetBySymbol(ctx context.Context, symbol string) (*models.StockInfo, error)
	FindExisting(ctx context.Context, symbols []string) ([]string, error)
	CountSymbols(ctx context.Context) (int, error)
}

// RowStore is the Batch Upsert Engine side of a backend
type RowStore interface {
	UpsertRows(ctx context.Context, spec *models.ImportRowSpec, rows []models.NormalizedRow) (int64, error)
	ExportRows(ctx context.Context, spec *models.ImportRowSpec, fn func(record []string) error) error
}

// Backend bundles the repositories of one store
type Backend struct {
	Driver  string
	Symbols SymbolStore
	Rows    RowStore
	close   func()
}

// Close releases the underlying connections
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// BackendOptions selects and locates the store
type BackendOptions struct {
	Driver     string // "postgres" or "sqlite"
	PGURL      string
	SQLitePath string
	Migrate    bool
}

// OpenBackend connects to the configured store and optionally applies migrations
func OpenBackend(ctx context.Context, opts BackendOptions) (*Backend, error) {
	switch opts.Driver {
	case "postgres":
		db, err := database.New(ctx, opts.PGURL)
		if err != nil {
			return nil, err
		}
		if opts.Migrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Backend{
			Driver:  opts.Driver,
			Symbols: NewSymbolRepository(db.Pool),
			Rows:    NewStockDataRepository(db.Pool),
			close:   db.Close,
		}, nil

	case "sqlite":
		if opts.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database dir: %w", err)
			}
		}
		db, err := database.OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		if opts.Migrate {
			if err := database.MigrateSQLite(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		repo := NewSQLiteRepository(db)
		log.Debugf("Opened SQLite store %s", opts.SQLitePath)
		return &Backend{
			Driver:  opts.Driver,
			Symbols: repo,
			Rows:    repo,
			close:   func() { db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
}
