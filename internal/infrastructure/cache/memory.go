// Package cache implementa la memoización del stock derivado (en memoria o Redis) y el lock de importación.
package cache

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.StockCache = (*MemoryStockCache)(nil)

type memoKey struct {
	productID  string
	generation uint64
	depotID    string
}

// MemoryStockCache caché de stock en el proceso.
type MemoryStockCache struct {
	mu          sync.RWMutex
	generations map[string]uint64
	values      map[memoKey]int64
}

// NewMemoryStockCache construye la caché vacía.
func NewMemoryStockCache() *MemoryStockCache {
	return &MemoryStockCache{
		generations: make(map[string]uint64),
		values:      make(map[memoKey]int64),
	}
}

func (c *MemoryStockCache) Generation(_ context.Context, productID string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[productID], nil
}

func (c *MemoryStockCache) Get(_ context.Context, productID string, generation uint64, depotID string) (int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[memoKey{productID, generation, depotID}]
	return v, ok, nil
}

func (c *MemoryStockCache) Set(_ context.Context, productID string, generation uint64, depotID string, qty int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[productID] != generation {
		return nil
	}
	c.values[memoKey{productID, generation, depotID}] = qty
	return nil
}

// Invalidate pasa a la siguiente generación y libera los valores de la anterior.
func (c *MemoryStockCache) Invalidate(_ context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.generations[productID]
	c.generations[productID] = old + 1
	for k := range c.values {
		if k.productID == productID && k.generation == old {
			delete(c.values, k)
		}
	}
	return nil
}
