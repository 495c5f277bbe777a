package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CountInput conteo físico de un producto (opcionalmente en un depósito).
type CountInput struct {
	ProductID string
	DepotID   string
	Counted   int64
}

// VerificationLine stock teórico contra contado.
type VerificationLine struct {
	Product     entity.Product
	DepotID     string
	Theoretical int64
	Counted     int64
	Discrepancy int64 // Counted - Theoretical
	Adjustment  *entity.StockMovement
}

// Verify compara los conteos físicos con el stock teórico. Con apply=true registra un movimiento
// compensatorio ("Inventory gain" / "Inventory loss") por cada diferencia; el ledger no se edita.
// Todos los conteos se validan antes de registrar cualquier ajuste y los ajustes se escriben en
// una sola transacción: o quedan todos o ninguno. Un mismo producto y depósito no puede contarse
// dos veces. Si la caché no pudo invalidarse los ajustes quedan registrados y se devuelve
// ErrCacheInvalidation junto con las líneas.
func (s *Service) Verify(ctx context.Context, counts []CountInput, apply bool, createdBy string) ([]VerificationLine, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: sin conteos", domain.ErrValidation)
	}
	type countKey struct{ product, depot string }
	seen := make(map[countKey]struct{}, len(counts))
	lines := make([]VerificationLine, 0, len(counts))
	productIDs := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.Counted < 0 {
			return nil, fmt.Errorf("%w: conteo negativo para %s", domain.ErrValidation, c.ProductID)
		}
		k := countKey{c.ProductID, c.DepotID}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: conteo repetido para %s en depósito %q", domain.ErrValidation, c.ProductID, c.DepotID)
		}
		seen[k] = struct{}{}
		p, err := s.product(ctx, c.ProductID)
		if err != nil {
			return nil, err
		}
		if apply && p.Archived {
			return nil, fmt.Errorf("%w: el producto %s está archivado", domain.ErrValidation, p.Code)
		}
		if c.DepotID != "" {
			if err := s.requireDepot(ctx, c.DepotID); err != nil {
				return nil, err
			}
		}
		theoretical, err := s.stockOf(ctx, c.ProductID, c.DepotID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, VerificationLine{
			Product:     *p,
			DepotID:     c.DepotID,
			Theoretical: theoretical,
			Counted:     c.Counted,
			Discrepancy: c.Counted - theoretical,
		})
		productIDs = append(productIDs, p.ID)
	}
	if !apply {
		return lines, nil
	}

	adjustments := make([]*entity.StockMovement, len(lines))
	err := s.tx.Run(ctx, productIDs, func(movRepo repository.MovementRepository) error {
		calc := dinv.NewCalculator(movRepo, s.classes)
		now := s.now().UTC()
		for i := range lines {
			adjustments[i] = nil
			l := &lines[i]
			// el teórico se recalcula bajo el lock por si entró un movimiento desde la vista previa
			theoretical, err := calc.StockOf(ctx, l.Product.ID, l.DepotID)
			if err != nil {
				return err
			}
			l.Theoretical, l.Discrepancy = theoretical, l.Counted-theoretical
			if l.Discrepancy == 0 {
				continue
			}
			m := &entity.StockMovement{
				ID:        uuid.New().String(),
				ProductID: l.Product.ID,
				DepotID:   l.DepotID,
				Comment:   fmt.Sprintf("verificación: teórico %d, contado %d", l.Theoretical, l.Counted),
				CreatedBy: createdBy,
				Timestamp: now,
			}
			if l.Discrepancy > 0 {
				m.Direction, m.Label, m.Quantity = entity.DirectionIn, dinv.LabelInventoryGain, l.Discrepancy
			} else {
				m.Direction, m.Label, m.Quantity = entity.DirectionOut, dinv.LabelInventoryLoss, -l.Discrepancy
			}
			if err := movRepo.Append(ctx, m); err != nil {
				return fmt.Errorf("ajuste de %s: %w", l.Product.Code, err)
			}
			adjustments[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var cacheErr error
	for i, m := range adjustments {
		lines[i].Adjustment = m
		if m == nil {
			continue
		}
		s.metrics.MovementRecorded(string(m.Direction))
		if err := s.cache.Invalidate(ctx, m.ProductID); err != nil && cacheErr == nil {
			cacheErr = fmt.Errorf("%w: %v", domain.ErrCacheInvalidation, err)
		}
	}
	return lines, cacheErr
}
