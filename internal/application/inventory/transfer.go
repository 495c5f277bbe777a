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

// TransferInput traslado de un producto entre dos depósitos.
type TransferInput struct {
	ProductID   string
	FromDepotID string
	ToDepotID   string
	Quantity    int64
	Comment     string
	CreatedBy   string
}

// Transfer registra una salida en el depósito de origen y una entrada en el de destino,
// en la misma transacción y con el mismo TransferID. Falla con ErrInsufficientStock si el
// origen no tiene la cantidad pedida.
func (s *Service) Transfer(ctx context.Context, in TransferInput) ([]entity.StockMovement, error) {
	legs, err := s.prepareTransfer(ctx, in)
	if err != nil {
		s.metrics.MovementRejected(rejectReason(err))
		return nil, err
	}
	out, inLeg := legs[0], legs[1]

	err = s.tx.Run(ctx, []string{in.ProductID}, func(movRepo repository.MovementRepository) error {
		available, err := dinv.NewCalculator(movRepo, s.classes).StockOf(ctx, in.ProductID, in.FromDepotID)
		if err != nil {
			return err
		}
		if available < in.Quantity {
			return fmt.Errorf("%w: disponible %d en origen, solicitado %d", domain.ErrInsufficientStock, available, in.Quantity)
		}
		if err := movRepo.Append(ctx, &out); err != nil {
			return err
		}
		return movRepo.Append(ctx, &inLeg)
	})
	if err != nil {
		s.metrics.MovementRejected(rejectReason(err))
		return nil, fmt.Errorf("transfer: %w", err)
	}
	s.metrics.MovementRecorded(string(out.Direction))
	s.metrics.MovementRecorded(string(inLeg.Direction))
	if err := s.cache.Invalidate(ctx, in.ProductID); err != nil {
		return []entity.StockMovement{out, inLeg}, fmt.Errorf("%w: %v", domain.ErrCacheInvalidation, err)
	}
	return []entity.StockMovement{out, inLeg}, nil
}

func (s *Service) prepareTransfer(ctx context.Context, in TransferInput) ([]entity.StockMovement, error) {
	if in.ProductID == "" || in.FromDepotID == "" || in.ToDepotID == "" {
		return nil, fmt.Errorf("%w: producto, origen y destino son requeridos", domain.ErrValidation)
	}
	if in.FromDepotID == in.ToDepotID {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrValidation)
	}
	if err := dinv.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if _, err := s.activeProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	for _, id := range []string{in.FromDepotID, in.ToDepotID} {
		if err := s.requireDepot(ctx, id); err != nil {
			return nil, err
		}
	}
	now := s.now().UTC()
	transferID := uuid.New().String()
	leg := func(dir entity.Direction, label, depotID string) entity.StockMovement {
		return entity.StockMovement{
			ID:         uuid.New().String(),
			ProductID:  in.ProductID,
			Direction:  dir,
			Label:      label,
			Quantity:   in.Quantity,
			DepotID:    depotID,
			Comment:    in.Comment,
			TransferID: transferID,
			CreatedBy:  in.CreatedBy,
			Timestamp:  now,
		}
	}
	return []entity.StockMovement{
		leg(entity.DirectionOut, dinv.LabelTransferOut, in.FromDepotID),
		leg(entity.DirectionIn, dinv.LabelTransferIn, in.ToDepotID),
	}, nil
}
