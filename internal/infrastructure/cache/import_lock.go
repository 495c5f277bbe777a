package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/importer"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

var (
	_ importer.Lock = (*RedisImportLock)(nil)
	_ importer.Lock = (*MemoryImportLock)(nil)
)

// RedisImportLock lock distribuido con bsm/redislock. Sirve con varias réplicas de la API.
type RedisImportLock struct {
	locker *redislock.Client
}

// NewRedisImportLock construye el lock sobre el cliente go-redis.
func NewRedisImportLock(client *redis.Client) *RedisImportLock {
	return &RedisImportLock{locker: redislock.New(client)}
}

// Obtain intenta tomar el lock una sola vez.
func (l *RedisImportLock) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: hay otra importación en curso", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// MemoryImportLock lock de proceso para el modo sin Redis.
type MemoryImportLock struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewMemoryImportLock construye el lock.
func NewMemoryImportLock() *MemoryImportLock {
	return &MemoryImportLock{held: make(map[string]time.Time)}
}

// Obtain toma el lock si está libre o si el anterior expiró.
func (l *MemoryImportLock) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, fmt.Errorf("%w: hay otra importación en curso", domain.ErrConflict)
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(exp) {
			delete(l.held, key)
		}
		return nil
	}, nil
}
