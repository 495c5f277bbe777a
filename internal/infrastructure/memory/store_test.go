package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func mov(id, product string, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{ID: id, ProductID: product, Direction: entity.DirectionIn, Quantity: 1, Timestamp: at}
}

func collect(t *testing.T, r *MovementRepo, f repository.MovementFilter) []string {
	t.Helper()
	var ids []string
	for m, err := range r.List(context.Background(), f) {
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMovementRepo_OrdenYEmpates(t *testing.T) {
	ctx := context.Background()
	r := NewMovementRepository(NewStore())
	require.NoError(t, r.Append(ctx, mov("b", "p1", t0.Add(time.Hour))))
	require.NoError(t, r.Append(ctx, mov("a", "p1", t0)))
	require.NoError(t, r.Append(ctx, mov("c", "p1", t0.Add(time.Hour))))
	require.NoError(t, r.Append(ctx, mov("x", "p2", t0)))

	assert.Equal(t, []string{"a", "b", "c"}, collect(t, r, repository.MovementFilter{ProductIDs: []string{"p1"}}))
	assert.Equal(t, []string{"c", "b", "a"}, collect(t, r, repository.MovementFilter{ProductIDs: []string{"p1"}, Order: repository.OrderDesc}))
	assert.Equal(t, []string{"c"}, collect(t, r, repository.MovementFilter{ProductIDs: []string{"p1"}, Order: repository.OrderDesc, Limit: 1}))

	from := t0.Add(time.Minute)
	assert.Equal(t, []string{"b", "c"}, collect(t, r, repository.MovementFilter{From: &from}))
}

func TestMovementRepo_Exists(t *testing.T) {
	ctx := context.Background()
	r := NewMovementRepository(NewStore())
	m := mov("a", "p1", t0)
	m.DepotID = "d1"
	require.NoError(t, r.Append(ctx, m))

	ok, err := r.ExistsForProduct(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = r.ExistsForProduct(ctx, "p2")
	assert.False(t, ok)
	ok, _ = r.ExistsForDepot(ctx, "d1")
	assert.True(t, ok)
}

func TestTxRunner_DescartaAlFallar(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tx := NewTxRunner(s)
	r := NewMovementRepository(s)

	boom := errors.New("boom")
	err := tx.Run(ctx, []string{"p1"}, func(movRepo repository.MovementRepository) error {
		require.NoError(t, movRepo.Append(ctx, mov("a", "p1", t0)))
		require.NoError(t, movRepo.Append(ctx, mov("b", "p1", t0)))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, collect(t, r, repository.MovementFilter{}))

	require.NoError(t, tx.Run(ctx, []string{"p1"}, func(movRepo repository.MovementRepository) error {
		return movRepo.Append(ctx, mov("c", "p1", t0))
	}))
	assert.Equal(t, []string{"c"}, collect(t, r, repository.MovementFilter{}))
}

func TestProductRepo_ListYArchivado(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepository(NewStore())
	for i, name := range []string{"Tuerca", "Tornillo", "Arandela"} {
		n, err := r.NextCodeNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), n)
		require.NoError(t, r.Create(ctx, &entity.Product{ID: name, Code: entity.FormatProductCode(n), Name: name, Category: "Ferretería"}))
	}
	require.NoError(t, r.SetArchived(ctx, "Tornillo", true))

	list, err := r.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PRD-0001", list[0].Code)
	assert.Equal(t, "PRD-0003", list[1].Code)

	list, err = r.List(ctx, repository.ProductFilter{IncludeArchived: true, Search: "torn"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Archived)

	list, err = r.List(ctx, repository.ProductFilter{IncludeArchived: true, Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "PRD-0003", list[0].Code)

	err = r.Create(ctx, &entity.Product{ID: "otro", Code: "PRD-0001"})
	assert.ErrorIs(t, err, domain.ErrConstraint)
	assert.ErrorIs(t, r.SetArchived(ctx, "nada", true), domain.ErrNotFound)

	p, err := r.GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestContactRepo_DeleteLimpiaProveedor(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	contacts := NewContactRepository(s)
	products := NewProductRepository(s)

	require.NoError(t, contacts.Create(ctx, &entity.Contact{ID: "c1", Kind: entity.ContactSupplier, Name: "Acme"}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p1", Code: "PRD-0001", Name: "Tornillo", SupplierID: "c1"}))

	require.NoError(t, contacts.Delete(ctx, "c1"))
	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, p.SupplierID)
}

func TestUserRepo_UnicidadSinEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(NewStore())
	require.NoError(t, r.Create(ctx, &entity.User{ID: "1", Username: "ana"}))
	require.NoError(t, r.Create(ctx, &entity.User{ID: "2", Username: "luis"}))
	assert.ErrorIs(t, r.Create(ctx, &entity.User{ID: "3", Username: "ANA"}), domain.ErrConstraint)
}
