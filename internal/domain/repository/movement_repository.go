package repository

import (
	"context"
	"iter"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SortOrder orden temporal de los movimientos devueltos.
type SortOrder int

const (
	OrderAsc  SortOrder = iota // series temporales
	OrderDesc                  // actividad reciente
)

// MovementFilter filtros opcionales sobre el ledger. From y To son inclusivos.
type MovementFilter struct {
	ProductIDs []string
	DepotID    string
	From       *time.Time
	To         *time.Time
	Order      SortOrder
	Limit      int // 0 = sin límite
}

// MovementRepository puerto del ledger. Solo admite inserción: no hay Update ni Delete.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve una secuencia perezosa; el error, si ocurre, es el último elemento.
	ListByProduct(ctx context.Context, productID string, filter MovementFilter) iter.Seq2[entity.StockMovement, error]
	List(ctx context.Context, filter MovementFilter) iter.Seq2[entity.StockMovement, error]
	ExistsForProduct(ctx context.Context, productID string) (bool, error)
	ExistsForDepot(ctx context.Context, depotID string) (bool, error)
}
