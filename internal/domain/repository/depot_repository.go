package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// DepotRepository define el puerto de persistencia para Depot.
type DepotRepository interface {
	Create(ctx context.Context, depot *entity.Depot) error
	GetByID(ctx context.Context, id string) (*entity.Depot, error)
	GetByName(ctx context.Context, name string) (*entity.Depot, error)
	Update(ctx context.Context, depot *entity.Depot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Depot, error)
}
