package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

const (
	keyNamespace = "ledger"
	stockPrefix  = "stock"
	allDepots    = "all"
)

var _ inventory.StockCache = (*RedisStockCache)(nil)

type cmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Incr(context.Context, string) *redis.IntCmd
}

// RedisStockCache memoiza el stock en Redis.
//
//	ledger:stock:{producto}:gen                  contador de generación (INCR en cada movimiento)
//	ledger:stock:{producto}:{gen}:{depósito|all} stock calculado, con TTL
//
// Los valores de generaciones viejas no se borran: nadie los vuelve a leer y expiran por TTL.
type RedisStockCache struct {
	store cmdable
	ttl   time.Duration
}

// NewRedisStockCache construye la caché sobre un cliente go-redis.
func NewRedisStockCache(client *redis.Client, ttl time.Duration) *RedisStockCache {
	return &RedisStockCache{store: client, ttl: ttl}
}

// GenerationKey clave del contador de generación.
func (c *RedisStockCache) GenerationKey(productID string) string {
	return buildKey(keyNamespace, stockPrefix, productID, "gen")
}

// ValueKey clave del stock memoizado.
func (c *RedisStockCache) ValueKey(productID string, generation uint64, depotID string) string {
	if depotID == "" {
		depotID = allDepots
	}
	return buildKey(keyNamespace, stockPrefix, productID, strconv.FormatUint(generation, 10), depotID)
}

func (c *RedisStockCache) Generation(ctx context.Context, productID string) (uint64, error) {
	raw, err := c.store.Get(ctx, c.GenerationKey(productID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	gen, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis generation %q: %w", raw, err)
	}
	return gen, nil
}

func (c *RedisStockCache) Get(ctx context.Context, productID string, generation uint64, depotID string) (int64, bool, error) {
	raw, err := c.store.Get(ctx, c.ValueKey(productID, generation, depotID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get stock: %w", err)
	}
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis stock %q: %w", raw, err)
	}
	return qty, true, nil
}

func (c *RedisStockCache) Set(ctx context.Context, productID string, generation uint64, depotID string, qty int64) error {
	return c.store.Set(ctx, c.ValueKey(productID, generation, depotID), qty, c.ttl).Err()
}

func (c *RedisStockCache) Invalidate(ctx context.Context, productID string) error {
	return c.store.Incr(ctx, c.GenerationKey(productID)).Err()
}

func buildKey(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			filtered = append(filtered, p)
		}
	}
	return strings.Join(filtered, ":")
}
