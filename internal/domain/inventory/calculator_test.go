package inventory_test

import (
	"context"
	"errors"
	"iter"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// sliceLedger ledger en memoria mínimo para el calculador.
type sliceLedger struct {
	movements []entity.StockMovement
	err       error
}

func (l sliceLedger) ListByProduct(_ context.Context, productID string, f repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	return func(yield func(entity.StockMovement, error) bool) {
		for _, m := range l.movements {
			if m.ProductID != productID || (f.DepotID != "" && m.DepotID != f.DepotID) {
				continue
			}
			if !yield(m, nil) {
				return
			}
		}
		if l.err != nil {
			yield(entity.StockMovement{}, l.err)
		}
	}
}

func mov(product, label string, dir entity.Direction, qty int64, depot string) entity.StockMovement {
	return entity.StockMovement{ProductID: product, Label: label, Direction: dir, Quantity: qty, DepotID: depot}
}

func TestCalculator_StockOf(t *testing.T) {
	ledger := sliceLedger{movements: []entity.StockMovement{
		mov("p1", "Incoming", entity.DirectionIn, 50, "d1"),
		mov("p1", "Delivery", entity.DirectionOut, 45, "d1"),
		mov("p1", "Back", entity.DirectionIn, 3, "d2"),
		mov("p2", "Incoming", entity.DirectionIn, 7, "d1"),
	}}
	calc := inventory.NewCalculator(ledger, inventory.DefaultClasses())

	total, err := calc.StockOf(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)

	d1, err := calc.StockOf(context.Background(), "p1", "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), d1)

	none, err := calc.StockOf(context.Background(), "p3", "")
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestCalculator_PermiteNegativo(t *testing.T) {
	ledger := sliceLedger{movements: []entity.StockMovement{
		mov("p1", "Incoming", entity.DirectionIn, 2, ""),
		mov("p1", "Delivery", entity.DirectionOut, 3, ""),
	}}
	total, err := inventory.NewCalculator(ledger, inventory.DefaultClasses()).StockOf(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), total)
}

func TestCalculator_PropagaErrorDelLedger(t *testing.T) {
	boom := errors.New("conexión perdida")
	ledger := sliceLedger{err: boom}
	_, err := inventory.NewCalculator(ledger, inventory.DefaultClasses()).StockOf(context.Background(), "p1", "")
	assert.ErrorIs(t, err, boom)
}

func TestFold_Desborde(t *testing.T) {
	classes := inventory.DefaultClasses()
	big := int64(math.MaxInt64/2 + 1)

	ledger := sliceLedger{movements: []entity.StockMovement{
		mov("p1", "Incoming", entity.DirectionIn, big, ""),
		mov("p1", "Incoming", entity.DirectionIn, big, ""),
	}}
	_, err := inventory.NewCalculator(ledger, classes).StockOf(context.Background(), "p1", "")
	assert.ErrorIs(t, err, inventory.ErrStockOverflow)

	ledger.movements[0].Label, ledger.movements[0].Direction = "Delivery", entity.DirectionOut
	ledger.movements[1].Label, ledger.movements[1].Direction = "Delivery", entity.DirectionOut
	_, err = inventory.NewCalculator(ledger, classes).StockOf(context.Background(), "p1", "")
	assert.NoError(t, err, "-2^63 todavía cabe")

	ledger.movements = append(ledger.movements, mov("p1", "Delivery", entity.DirectionOut, 1, ""))
	_, err = inventory.FoldByProduct(classes, func(yield func(entity.StockMovement, error) bool) {
		for _, m := range ledger.movements {
			if !yield(m, nil) {
				return
			}
		}
	})
	assert.ErrorIs(t, err, inventory.ErrStockOverflow)
}

// El fold debe coincidir con la suma directa para cualquier secuencia, y repetirlo no cambia el resultado.
func TestFold_IgualASumaDirecta(t *testing.T) {
	classes := inventory.DefaultClasses()
	labels := []struct {
		label string
		dir   entity.Direction
	}{
		{"Incoming", entity.DirectionIn},
		{"Back", entity.DirectionIn},
		{"Delivery", entity.DirectionOut},
		{"Restocking", entity.DirectionOut},
		{"Muestra", entity.DirectionOut},
		{"Regalo", entity.DirectionIn},
	}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := rng.Intn(40)
		movements := make([]entity.StockMovement, 0, n)
		var want int64
		for i := 0; i < n; i++ {
			l := labels[rng.Intn(len(labels))]
			q := int64(rng.Intn(100) + 1)
			movements = append(movements, mov("p", l.label, l.dir, q, ""))
			if l.dir == entity.DirectionIn {
				want += q
			} else {
				want -= q
			}
		}
		ledger := sliceLedger{movements: movements}

		first, err := inventory.Fold(classes, ledger.ListByProduct(context.Background(), "p", repository.MovementFilter{}))
		require.NoError(t, err)
		second, err := inventory.Fold(classes, ledger.ListByProduct(context.Background(), "p", repository.MovementFilter{}))
		require.NoError(t, err)

		assert.Equal(t, want, first, "ronda %d", round)
		assert.Equal(t, first, second, "ronda %d", round)
	}
}

func TestFoldByProduct(t *testing.T) {
	ledger := sliceLedger{movements: []entity.StockMovement{
		mov("a", "Incoming", entity.DirectionIn, 10, ""),
		mov("b", "Incoming", entity.DirectionIn, 4, ""),
		mov("a", "Delivery", entity.DirectionOut, 3, ""),
	}}
	seq := func(yield func(entity.StockMovement, error) bool) {
		for _, m := range ledger.movements {
			if !yield(m, nil) {
				return
			}
		}
	}
	totals, err := inventory.FoldByProduct(inventory.DefaultClasses(), seq)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 7, "b": 4}, totals)
}
