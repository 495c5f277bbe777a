package inventory

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Ledger lectura del ledger que necesita el calculador.
type Ledger interface {
	ListByProduct(ctx context.Context, productID string, filter repository.MovementFilter) iter.Seq2[entity.StockMovement, error]
}

// ErrStockOverflow la suma del ledger no cabe en un int64.
var ErrStockOverflow = errors.New("stock fuera del rango int64")

// addSigned suma sign*qty a total; falla si el resultado desborda.
func addSigned(total, sign, qty int64) (int64, error) {
	delta := sign * qty
	sum := total + delta
	if (delta > 0 && sum < total) || (delta < 0 && sum > total) {
		return total, ErrStockOverflow
	}
	return sum, nil
}

// Fold suma con signo las cantidades de la secuencia. O(n) sobre los movimientos recibidos.
func Fold(classes *Classes, movements iter.Seq2[entity.StockMovement, error]) (int64, error) {
	var total int64
	for m, err := range movements {
		if err != nil {
			return 0, err
		}
		if total, err = addSigned(total, classes.Sign(m), m.Quantity); err != nil {
			return 0, fmt.Errorf("movimiento %s: %w", m.ID, err)
		}
	}
	return total, nil
}

// FoldByProduct igual que Fold pero agrupando por producto en una sola pasada.
func FoldByProduct(classes *Classes, movements iter.Seq2[entity.StockMovement, error]) (map[string]int64, error) {
	totals := make(map[string]int64)
	for m, err := range movements {
		if err != nil {
			return nil, err
		}
		sum, err := addSigned(totals[m.ProductID], classes.Sign(m), m.Quantity)
		if err != nil {
			return nil, fmt.Errorf("movimiento %s: %w", m.ID, err)
		}
		totals[m.ProductID] = sum
	}
	return totals, nil
}

// Calculator deriva el stock teórico de un producto a partir del ledger. No guarda contadores.
type Calculator struct {
	ledger  Ledger
	classes *Classes
}

// NewCalculator construye el calculador sobre un ledger (pool o transacción).
func NewCalculator(ledger Ledger, classes *Classes) *Calculator {
	return &Calculator{ledger: ledger, classes: classes}
}

// StockOf devuelve el stock crudo (puede ser negativo). depotID vacío = todos los depósitos.
func (c *Calculator) StockOf(ctx context.Context, productID, depotID string) (int64, error) {
	qty, err := Fold(c.classes, c.ledger.ListByProduct(ctx, productID, repository.MovementFilter{DepotID: depotID}))
	if err != nil {
		return 0, fmt.Errorf("stock of %s: %w", productID, err)
	}
	return qty, nil
}
