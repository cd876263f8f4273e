package services

import (
	"context"
	"strings"
	"sync"

	"github.com/epeers/stockdata/internal/cache"
	"github.com/epeers/stockdata/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultLookupChunk is the number of symbols sent per registry read
const DefaultLookupChunk = 500

// SymbolRegistry is the read side of stock_info. Both the Postgres and the
// SQLite repositories implement it.
type SymbolRegistry interface {
	GetBySymbol(ctx context.Context, symbol string) (*models.StockInfo, error)
	FindExisting(ctx context.Context, symbols []string) ([]string, error)
	CountSymbols(ctx context.Context) (int, error)
}

// SymbolLookup answers "is this a known symbol" for the validator
type SymbolLookup struct {
	registry SymbolRegistry
	chunk    int
	cache    *cache.MemoryCache
}

// NewSymbolLookup creates a new SymbolLookup. chunk <= 0 uses DefaultLookupChunk.
func NewSymbolLookup(registry SymbolRegistry, chunk int) *SymbolLookup {
	if chunk <= 0 {
		chunk = DefaultLookupChunk
	}
	return &SymbolLookup{registry: registry, chunk: chunk}
}

// WithCache makes Info and Exists serve registry entries from c. A cache miss
// falls through to the registry. ExistsMany always reads the registry.
func (l *SymbolLookup) WithCache(c *cache.MemoryCache) *SymbolLookup {
	l.cache = c
	return l
}

// Forget drops cached entries for symbols after the registry changed
func (l *SymbolLookup) Forget(symbols ...string) {
	if l.cache == nil {
		return
	}
	for _, s := range symbols {
		l.cache.InvalidateSymbol(s)
	}
}

// Exists reports whether a single symbol is in the registry
func (l *SymbolLookup) Exists(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, nil
	}
	if l.cache != nil {
		if _, ok := l.cache.GetSymbol(symbol); ok {
			return true, nil
		}
	}
	found, err := l.registry.FindExisting(ctx, []string{symbol})
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// ExistsMany resolves a set of symbols. The set is split into chunks that are
// read concurrently; all reads complete before it returns. Every input symbol
// (uppercased) appears in the result.
func (l *SymbolLookup) ExistsMany(ctx context.Context, symbols []string) (map[string]bool, error) {

	result := make(map[string]bool, len(symbols))
	unique := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, seen := result[s]; !seen {
			result[s] = false
			unique = append(unique, s)
		}
	}
	if len(unique) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(unique); start += l.chunk {
		chunk := unique[start:min(start+l.chunk, len(unique))]
		g.Go(func() error {
			found, err := l.registry.FindExisting(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range found {
				result[strings.ToUpper(s)] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debugf("Symbol lookup: %d distinct symbols in %d chunk(s)", len(unique), (len(unique)+l.chunk-1)/l.chunk)
	return result, nil
}

// Info returns the registry entry for a symbol
func (l *SymbolLookup) Info(ctx context.Context, symbol string) (*models.StockInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if l.cache != nil {
		if info, ok := l.cache.GetSymbol(symbol); ok {
			return info, nil
		}
	}

	info, err := l.registry.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.SetSymbol(info)
	}
	return info, nil
}

// Count returns the number of registry entries
func (l *SymbolLookup) Count(ctx context.Context) (int, error) {
	return l.registry.CountSymbols(ctx)
}
