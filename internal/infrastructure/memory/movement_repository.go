package memory

import (
	"context"
	"iter"
	"slices"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// MovementRepo ledger en memoria. Solo agrega; el orden de inserción desempata fechas iguales.
type MovementRepo struct{ s *Store }

// NewMovementRepository construye el repositorio.
func NewMovementRepository(s *Store) *MovementRepo { return &MovementRepo{s: s} }

// Append agrega el movimiento al final del ledger.
func (r *MovementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

// ListByProduct movimientos de un producto.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, f repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	f.ProductIDs = []string{productID}
	return r.List(ctx, f)
}

// List recorre una instantánea del ledger tomada al iniciar la iteración.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	return func(yield func(entity.StockMovement, error) bool) {
		snapshot := r.snapshot(f)
		for _, m := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(entity.StockMovement{}, err)
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (r *MovementRepo) snapshot(f repository.MovementFilter) []entity.StockMovement {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.StockMovement, 0)
	for _, m := range r.s.movements {
		if len(f.ProductIDs) > 0 && !slices.Contains(f.ProductIDs, m.ProductID) {
			continue
		}
		if f.DepotID != "" && m.DepotID != f.DepotID {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b entity.StockMovement) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	if f.Order == repository.OrderDesc {
		slices.Reverse(out)
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

// ExistsForProduct indica si algún movimiento referencia el producto.
func (r *MovementRepo) ExistsForProduct(_ context.Context, productID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.ContainsFunc(r.s.movements, func(m entity.StockMovement) bool { return m.ProductID == productID }), nil
}

// ExistsForDepot indica si algún movimiento referencia el depósito.
func (r *MovementRepo) ExistsForDepot(_ context.Context, depotID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.ContainsFunc(r.s.movements, func(m entity.StockMovement) bool { return m.DepotID == depotID }), nil
}
