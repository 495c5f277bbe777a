package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

type deps struct {
	svc      *inventory.Service
	products *usecase.ProductUseCase
	depots   *usecase.DepotUseCase
	contacts *usecase.ContactUseCase
}

func newDeps() deps {
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	depotRepo := memory.NewDepotRepository(store)
	contactRepo := memory.NewContactRepository(store)
	svc := inventory.NewService(inventory.Deps{
		Products:  productRepo,
		Depots:    depotRepo,
		Movements: movementRepo,
		Tx:        memory.NewTxRunner(store),
	})
	return deps{
		svc:      svc,
		products: usecase.NewProductUseCase(productRepo, movementRepo, contactRepo, svc, usecase.ProductDefaults{Threshold: 3, Unit: "pcs"}),
		depots:   usecase.NewDepotUseCase(depotRepo, movementRepo),
		contacts: usecase.NewContactUseCase(contactRepo),
	}
}

func ptr[T any](v T) *T { return &v }

func TestProductUseCase_CreateGeneraCodigoYDefaults(t *testing.T) {
	ctx := context.Background()
	d := newDeps()

	first, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Widget", Price: decimal.RequireFromString("2.50")})
	require.NoError(t, err)
	assert.Equal(t, "PRD-0001", first.Code)
	assert.Equal(t, int64(3), first.Threshold)
	assert.Equal(t, "pcs", first.Unit)

	second, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Gadget", Threshold: ptr[int64](0), Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "PRD-0002", second.Code)
	assert.Equal(t, int64(0), second.Threshold)
	assert.Equal(t, "kg", second.Unit)
}

func TestProductUseCase_CreateValidaciones(t *testing.T) {
	ctx := context.Background()
	d := newDeps()

	_, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = d.products.Create(ctx, dto.CreateProductRequest{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = d.products.Create(ctx, dto.CreateProductRequest{Name: "X", SupplierID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductUseCase_UpdateNoCambiaCodigo(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	p, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Widget"})
	require.NoError(t, err)

	up, err := d.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: ptr("Widget XL"), Threshold: ptr[int64](7)})
	require.NoError(t, err)
	assert.Equal(t, p.Code, up.Code)
	assert.Equal(t, "Widget XL", up.Name)
	assert.Equal(t, int64(7), up.Threshold)

	_, err = d.products.Update(ctx, "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_RemoveBorraOArchiva(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	unused, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Sin uso"})
	require.NoError(t, err)
	used, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Con uso"})
	require.NoError(t, err)
	_, err = d.svc.RecordMovement(ctx, inventory.RecordInput{ProductID: used.ID, Label: dinv.LabelIncoming, Quantity: 2})
	require.NoError(t, err)

	res, err := d.products.Remove(ctx, unused.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	_, err = d.products.GetByID(ctx, unused.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err = d.products.Remove(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, res.Archived)

	list, err := d.products.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	list, err = d.products.List(ctx, repository.ProductFilter{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.True(t, list.Items[0].Archived)

	_, err = d.svc.RecordMovement(ctx, inventory.RecordInput{ProductID: used.ID, Label: dinv.LabelIncoming, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	un, err := d.products.Unarchive(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, un.Archived)

	detail, err := d.products.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.Stock.Raw)
}

func TestProductUseCase_DuplicateEmpiezaEnCero(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	src, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Widget", Category: "Herramientas", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = d.svc.RecordMovement(ctx, inventory.RecordInput{ProductID: src.ID, Label: dinv.LabelIncoming, Quantity: 9})
	require.NoError(t, err)

	cp, err := d.products.Duplicate(ctx, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, cp.ID)
	assert.Equal(t, "PRD-0002", cp.Code)
	assert.Equal(t, "Herramientas", cp.Category)
	assert.True(t, src.Price.Equal(cp.Price))

	detail, err := d.products.GetByID(ctx, cp.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.Stock.Raw)
	assert.Equal(t, string(dinv.StatusOutOfStock), detail.Stock.Status)
}

func TestDepotUseCase(t *testing.T) {
	ctx := context.Background()
	d := newDeps()

	central, err := d.depots.Create(ctx, dto.CreateDepotRequest{Name: "Central"})
	require.NoError(t, err)
	_, err = d.depots.Create(ctx, dto.CreateDepotRequest{Name: "central"})
	assert.ErrorIs(t, err, domain.ErrConstraint)

	norte, err := d.depots.Create(ctx, dto.CreateDepotRequest{Name: "Norte"})
	require.NoError(t, err)

	p, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Widget"})
	require.NoError(t, err)
	_, err = d.svc.RecordMovement(ctx, inventory.RecordInput{ProductID: p.ID, Label: dinv.LabelIncoming, Quantity: 1, DepotID: central.ID})
	require.NoError(t, err)

	renamed, err := d.depots.Update(ctx, central.ID, dto.UpdateDepotRequest{Name: ptr("Principal")})
	require.NoError(t, err)
	assert.Equal(t, "Principal", renamed.Name)

	stock, err := d.svc.StockOf(ctx, p.ID, central.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock, "el renombre no afecta los movimientos")

	assert.ErrorIs(t, d.depots.Delete(ctx, central.ID), domain.ErrConflict)
	require.NoError(t, d.depots.Delete(ctx, norte.ID))
	_, err = d.depots.GetByID(ctx, norte.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	names, err := d.depots.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{central.ID: "Principal"}, names)
}

func TestContactUseCase(t *testing.T) {
	ctx := context.Background()
	d := newDeps()

	acme, err := d.contacts.Create(ctx, dto.CreateContactRequest{Kind: "supplier", Name: "ACME", FiscalID: "900-1"})
	require.NoError(t, err)

	_, err = d.contacts.Create(ctx, dto.CreateContactRequest{Kind: "supplier", Name: "acme"})
	assert.ErrorIs(t, err, domain.ErrConstraint)
	_, err = d.contacts.Create(ctx, dto.CreateContactRequest{Kind: "supplier", Name: "Otro", FiscalID: "900-1"})
	assert.ErrorIs(t, err, domain.ErrConstraint)

	// El mismo nombre puede existir como cliente.
	_, err = d.contacts.Create(ctx, dto.CreateContactRequest{Kind: "client", Name: "ACME"})
	require.NoError(t, err)

	_, err = d.contacts.Create(ctx, dto.CreateContactRequest{Kind: "partner", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := d.contacts.GetOrCreateSupplier(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)
	created, err := d.contacts.GetOrCreateSupplier(ctx, "Nuevo")
	require.NoError(t, err)
	assert.NotEqual(t, acme.ID, created.ID)

	suppliers, err := d.contacts.List(ctx, "supplier", 0, 0)
	require.NoError(t, err)
	assert.Len(t, suppliers.Items, 2)

	p, err := d.products.Create(ctx, dto.CreateProductRequest{Name: "Widget", SupplierID: acme.ID})
	require.NoError(t, err)
	require.NoError(t, d.contacts.Delete(ctx, acme.ID))
	detail, err := d.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.SupplierID)
}
