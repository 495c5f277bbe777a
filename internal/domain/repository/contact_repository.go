package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ContactRepository define el puerto de persistencia para proveedores y clientes.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	GetByName(ctx context.Context, kind entity.ContactKind, name string) (*entity.Contact, error)
	GetByFiscalID(ctx context.Context, kind entity.ContactKind, fiscalID string) (*entity.Contact, error)
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, kind entity.ContactKind, limit, offset int) ([]*entity.Contact, error)
}
