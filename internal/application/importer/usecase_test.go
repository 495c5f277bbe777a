package importer_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/importer"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

type stubReader struct {
	products  []dto.ProductImportRow
	movements []dto.MovementImportRow
}

func (s stubReader) ReadProducts(io.Reader) ([]dto.ProductImportRow, error) { return s.products, nil }
func (s stubReader) ReadMovements(io.Reader) ([]dto.MovementImportRow, error) {
	return s.movements, nil
}

type env struct {
	svc      *inventory.Service
	products repository.ProductRepository
	depots   repository.DepotRepository
	lock     *cache.MemoryImportLock
	build    func(r importer.SheetReader) *importer.ImportUseCase
}

func newEnv() env {
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	depotRepo := memory.NewDepotRepository(store)
	contactRepo := memory.NewContactRepository(store)
	svc := inventory.NewService(inventory.Deps{
		Products: productRepo, Depots: depotRepo, Movements: movementRepo, Tx: memory.NewTxRunner(store),
	})
	products := usecase.NewProductUseCase(productRepo, movementRepo, contactRepo, svc, usecase.ProductDefaults{Threshold: 3})
	contacts := usecase.NewContactUseCase(contactRepo)
	lock := cache.NewMemoryImportLock()
	return env{
		svc: svc, products: productRepo, depots: depotRepo, lock: lock,
		build: func(r importer.SheetReader) *importer.ImportUseCase {
			return importer.NewImportUseCase(r, lock, svc, products, contacts, productRepo, depotRepo)
		},
	}
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	reader := stubReader{products: []dto.ProductImportRow{
		{Row: 2, Name: "Widget", Code: "W-1", Price: "2.5", Threshold: "4", Supplier: "ACME"},
		{Row: 3, Name: "", Price: "1"},
		{Row: 4, Name: "Gadget", Price: "abc"},
		{Row: 5, Name: "Tornillo"},
	}}
	uc := e.build(reader)

	res, err := uc.ImportProducts(ctx, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, 4, res.Errors[1].Row)

	p, err := e.products.GetByCode(ctx, "PRD-0001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, int64(4), p.Threshold)
	assert.NotEmpty(t, p.SupplierID)

	// Una fila cuyo código ya existe se omite.
	res, err = e.build(stubReader{products: []dto.ProductImportRow{{Row: 2, Name: "Widget", Code: "PRD-0001"}}}).ImportProducts(ctx, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportMovements_ReproduceOrdenYReportaFilas(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	require.NoError(t, e.products.Create(ctx, &entity.Product{ID: "p1", Code: "PRD-0001", Name: "Widget", Threshold: 1}))
	require.NoError(t, e.depots.Create(ctx, &entity.Depot{ID: "d1", Name: "Central"}))

	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	reader := stubReader{movements: []dto.MovementImportRow{
		{Row: 2, Timestamp: t0.Add(2 * time.Hour), ProductCode: "PRD-0001", Label: "Delivery", Quantity: "3", Depot: "Central"},
		{Row: 3, Timestamp: t0, ProductCode: "PRD-0001", Label: "Incoming", Quantity: "10", Depot: "Central"},
		{Row: 4, Timestamp: t0, ProductCode: "PRD-0099", Label: "Incoming", Quantity: "1"},
		{Row: 5, Timestamp: t0, ProductCode: "PRD-0001", Label: "Incoming", Quantity: "1.5"},
		{Row: 6, Timestamp: t0, ProductCode: "PRD-0001", Label: "Incoming", Quantity: "1", Depot: "Sur"},
		{Row: 7, Timestamp: t0, ProductCode: "PRD-0001", Label: "Muestra", Direction: "out", Quantity: "2"},
	}}

	res, err := e.build(reader).ImportMovements(ctx, strings.NewReader(""), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, []int{4, 5, 6}, []int{res.Errors[0].Row, res.Errors[1].Row, res.Errors[2].Row})

	stock, err := e.svc.StockOf(ctx, "p1", "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)
	stock, err = e.svc.StockOf(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)

	seq, err := e.svc.MovementsFor(ctx, "p1", repository.MovementFilter{})
	require.NoError(t, err)
	var labels []string
	for m, err := range seq {
		require.NoError(t, err)
		labels = append(labels, m.Label)
	}
	assert.Equal(t, []string{"Incoming", "Muestra", "Delivery"}, labels)
}

func TestImport_LockOcupado(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	release, err := e.lock.Obtain(ctx, "ledger:import", time.Minute)
	require.NoError(t, err)

	_, err = e.build(stubReader{}).ImportMovements(ctx, strings.NewReader(""), "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, release(ctx))
	_, err = e.build(stubReader{}).ImportMovements(ctx, strings.NewReader(""), "u1")
	assert.NoError(t, err)
}
