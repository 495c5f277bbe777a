package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/report"
)

// ToMovementResponse convierte un movimiento del ledger en su DTO.
func ToMovementResponse(m entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Direction:    string(m.Direction),
		Label:        m.Label,
		Quantity:     m.Quantity,
		DepotID:      m.DepotID,
		Counterparty: m.Counterparty,
		Comment:      m.Comment,
		TransferID:   m.TransferID,
		CreatedBy:    m.CreatedBy,
		Timestamp:    m.Timestamp,
	}
}

// ToStockViewResponse convierte la vista de stock en su DTO.
func ToStockViewResponse(v *StockView) dto.StockViewResponse {
	return dto.StockViewResponse{
		ProductID: v.ProductID,
		DepotID:   v.DepotID,
		Raw:       v.Raw,
		Stock:     v.Stock,
		Threshold: v.Threshold,
		Status:    string(v.Status),
	}
}

// ToStockLineResponse convierte una línea de stock en su DTO.
func ToStockLineResponse(l report.StockLine) dto.StockLineResponse {
	return dto.StockLineResponse{
		ProductID: l.ProductID,
		Code:      l.Code,
		Name:      l.Name,
		Category:  l.Category,
		Unit:      l.Unit,
		Price:     l.Price,
		Threshold: l.Threshold,
		Raw:       l.Raw,
		Stock:     l.Stock,
		Value:     l.Value(),
		Status:    string(l.Status),
		Archived:  l.Archived,
	}
}

// ToStockLineResponses convierte un listado completo.
func ToStockLineResponses(lines []report.StockLine) []dto.StockLineResponse {
	out := make([]dto.StockLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, ToStockLineResponse(l))
	}
	return out
}

// ToVerificationResponses convierte las líneas de verificación.
func ToVerificationResponses(lines []VerificationLine) []dto.VerificationLineResponse {
	out := make([]dto.VerificationLineResponse, 0, len(lines))
	for _, l := range lines {
		r := dto.VerificationLineResponse{
			ProductID:   l.Product.ID,
			Code:        l.Product.Code,
			Name:        l.Product.Name,
			DepotID:     l.DepotID,
			Theoretical: l.Theoretical,
			Counted:     l.Counted,
			Discrepancy: l.Discrepancy,
		}
		if l.Adjustment != nil {
			r.AdjustmentID = l.Adjustment.ID
		}
		out = append(out, r)
	}
	return out
}
