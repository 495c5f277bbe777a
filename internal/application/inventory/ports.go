package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el ledger bloqueado para los productos indicados.
// Dos llamadas concurrentes sobre el mismo producto se serializan; Commit si fn devuelve nil.
type TxRunner interface {
	Run(ctx context.Context, productIDs []string, fn func(movRepo repository.MovementRepository) error) error
}

// StockCache memoiza el stock derivado. Cada producto tiene una generación que Invalidate incrementa;
// un valor guardado bajo una generación vieja queda inaccesible.
type StockCache interface {
	Generation(ctx context.Context, productID string) (uint64, error)
	Get(ctx context.Context, productID string, generation uint64, depotID string) (int64, bool, error)
	Set(ctx context.Context, productID string, generation uint64, depotID string, qty int64) error
	Invalidate(ctx context.Context, productID string) error
}

// Metrics contadores del ledger. Las implementaciones deben tolerar receptor nil.
type Metrics interface {
	MovementRecorded(direction string)
	MovementRejected(reason string)
	CacheLookup(hit bool)
}

type noCache struct{}

func (noCache) Generation(context.Context, string) (uint64, error) { return 0, nil }
func (noCache) Get(context.Context, string, uint64, string) (int64, bool, error) {
	return 0, false, nil
}
func (noCache) Set(context.Context, string, uint64, string, int64) error { return nil }
func (noCache) Invalidate(context.Context, string) error                 { return nil }

type noMetrics struct{}

func (noMetrics) MovementRecorded(string) {}
func (noMetrics) MovementRejected(string) {}
func (noMetrics) CacheLookup(bool)        {}
