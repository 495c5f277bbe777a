package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestMemoryImportLock(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryImportLock()

	release, err := l.Obtain(ctx, "k", time.Minute)
	require.NoError(t, err)
	_, err = l.Obtain(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = l.Obtain(ctx, "otra", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = l.Obtain(ctx, "k", time.Minute)
	assert.NoError(t, err)
}

func TestMemoryImportLock_Expira(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryImportLock()
	stale, err := l.Obtain(ctx, "k", -time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "k", time.Minute)
	require.NoError(t, err)

	// Liberar el lock vencido no suelta el vigente.
	require.NoError(t, stale(ctx))
	_, err = l.Obtain(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
