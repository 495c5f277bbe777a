package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementQuery_SingleProductAscending(t *testing.T) {
	sql, args, err := movementQuery(repository.MovementFilter{ProductIDs: []string{"p1"}}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM stock_movements WHERE product_id = $1")
	assert.Contains(t, sql, `ORDER BY "timestamp" ASC, seq ASC`)
	assert.NotContains(t, sql, "LIMIT")
	assert.Equal(t, []any{"p1"}, args)
}

func TestMovementQuery_AllFilters(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	f := repository.MovementFilter{
		ProductIDs: []string{"p1", "p2"},
		DepotID:    "d1",
		From:       &from,
		To:         &to,
		Order:      repository.OrderDesc,
		Limit:      20,
	}

	sql, args, err := movementQuery(f).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "product_id IN ($1,$2)")
	assert.Contains(t, sql, "depot_id = $3")
	assert.Contains(t, sql, `"timestamp" >= $4`)
	assert.Contains(t, sql, `"timestamp" <= $5`)
	assert.Contains(t, sql, `ORDER BY "timestamp" DESC, seq DESC LIMIT 20`)
	assert.Equal(t, []any{"p1", "p2", "d1", from, to}, args)
}

func TestProductListQuery(t *testing.T) {
	t.Run("por defecto excluye archivados", func(t *testing.T) {
		sql, args, err := productListQuery(repository.ProductFilter{}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "WHERE archived = $1")
		assert.Contains(t, sql, "ORDER BY code ASC")
		assert.Equal(t, []any{false}, args)
	})

	t.Run("búsqueda, categoría y paginación", func(t *testing.T) {
		f := repository.ProductFilter{Category: "Tools", Search: "50%", IncludeArchived: true, Limit: 10, Offset: 20}
		sql, args, err := productListQuery(f).ToSql()
		require.NoError(t, err)
		assert.NotContains(t, sql, "archived =")
		assert.Contains(t, sql, "category = $1")
		assert.Contains(t, sql, "(name ILIKE $2 OR code ILIKE $3)")
		assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
		assert.Equal(t, []any{"Tools", `%50\%%`, `%50\%%`}, args)
	})
}

func TestLockOrder(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, lockOrder([]string{"b", "a", "b", ""}))
	assert.Empty(t, lockOrder(nil))
}

func TestPgErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: code})
	}
	assert.True(t, isUniqueViolation(wrap("23505")))
	assert.True(t, isForeignKeyViolation(wrap("23503")))
	assert.True(t, isInvalidText(wrap("22P02")))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}
