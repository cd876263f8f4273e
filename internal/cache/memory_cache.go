package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/epeers/stockdata/internal/models"
)

// MemoryCache provides an in-memory cache of Symbol Registry entries for
// single-symbol lookups. Imports never read through it.
type MemoryCache struct {
	symbols map[string]symbolEntry
	mu      sync.RWMutex
	ttl     time.Duration
}

type symbolEntry struct {
	info      *models.StockInfo
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		symbols: make(map[string]symbolEntry),
		ttl:     ttl,
	}
}

// GetSymbol retrieves a cached registry entry if fresh
func (c *MemoryCache) GetSymbol(symbol string) (*models.StockInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.symbols[strings.ToUpper(symbol)]
	if !exists {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.info, true
}

// SetSymbol caches a registry entry
func (c *MemoryCache) SetSymbol(info *models.StockInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.symbols[strings.ToUpper(info.Symbol)] = symbolEntry{
		info:      info,
		fetchedAt: time.Now(),
	}
}

// InvalidateSymbol removes an entry from the cache
func (c *MemoryCache) InvalidateSymbol(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.symbols, strings.ToUpper(symbol))
}
