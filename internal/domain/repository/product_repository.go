package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Category        string
	Search          string // coincide con nombre o código
	IncludeArchived bool
	Limit           int // 0 = sin límite
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetArchived(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// NextCodeNumber reserva el siguiente número para el código PRD-%04d.
	NextCodeNumber(ctx context.Context) (int64, error)
}
