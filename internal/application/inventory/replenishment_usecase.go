package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ReplenishmentUseCase genera la lista de reposición: productos agotados o en/bajo su umbral
// con la cantidad sugerida de pedido.
type ReplenishmentUseCase struct {
	svc *Service
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(svc *Service) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{svc: svc}
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por urgencia.
// depotID puede ser vacío para considerar el stock global.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, depotID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	lines, err := uc.svc.StockLines(ctx, StockLinesFilter{DepotID: depotID})
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, l := range lines {
		if l.Status == dinv.StatusNormal {
			continue
		}
		// Stock ideal = 1.5 × umbral, redondeado hacia arriba; al menos 1 unidad.
		ideal := (l.Threshold*3 + 1) / 2
		if ideal < 1 {
			ideal = 1
		}
		current := l.Raw
		suggested := ideal - current
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          l.ProductID,
			Code:               l.Code,
			ProductName:        l.Name,
			CurrentStock:       current,
			Threshold:          l.Threshold,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitPrice:          l.Price,
			EstimatedOrderCost: l.Price.Mul(decimal.NewFromInt(suggested)),
			Status:             string(l.Status),
		})
	}

	// Primero agotados, luego mayor déficit frente al umbral, finalmente por código.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		aOut, bOut := a.Status == string(dinv.StatusOutOfStock), b.Status == string(dinv.StatusOutOfStock)
		if aOut != bOut {
			return aOut
		}
		defA, defB := a.Threshold-a.CurrentStock, b.Threshold-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.Code < b.Code
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
