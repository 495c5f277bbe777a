package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

var contactColumns = []string{
	"id::text AS id", "kind", "name", "fiscal_id", "contact_name", "email", "phone", "address",
	"created_at", "updated_at",
}

// ContactRepo proveedores y clientes sobre PostgreSQL.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador de persistencia para contactos.
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un contacto; nombre e identificación fiscal son únicos por tipo.
func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	stmt := psql.Insert("contacts").
		Columns("id", "kind", "name", "fiscal_id", "contact_name", "email", "phone", "address",
			"created_at", "updated_at").
		Values(c.ID, string(c.Kind), c.Name, c.FiscalID, c.ContactName, c.Email, c.Phone, c.Address,
			c.CreatedAt, c.UpdatedAt)
	if _, err := exec(ctx, r.q, "insert contact", stmt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contacto %q duplicado", domain.ErrConstraint, c.Name)
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto; (nil, nil) si no existe.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	q := psql.Select(contactColumns...).From("contacts").Where(sq.Eq{"id": id})
	return getOne[entity.Contact](ctx, r.q, "get contact by id", q)
}

// GetByName busca por nombre dentro de un tipo, sin distinguir mayúsculas.
func (r *ContactRepo) GetByName(ctx context.Context, kind entity.ContactKind, name string) (*entity.Contact, error) {
	q := psql.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"kind": string(kind)}).
		Where("lower(name) = lower(?)", name)
	return getOne[entity.Contact](ctx, r.q, "get contact by name", q)
}

// GetByFiscalID busca por identificación fiscal dentro de un tipo.
func (r *ContactRepo) GetByFiscalID(ctx context.Context, kind entity.ContactKind, fiscalID string) (*entity.Contact, error) {
	q := psql.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"kind": string(kind), "fiscal_id": fiscalID})
	return getOne[entity.Contact](ctx, r.q, "get contact by fiscal id", q)
}

// Update actualiza todos los datos del contacto salvo el tipo.
func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	stmt := psql.Update("contacts").
		SetMap(map[string]any{
			"name":         c.Name,
			"fiscal_id":    c.FiscalID,
			"contact_name": c.ContactName,
			"email":        c.Email,
			"phone":        c.Phone,
			"address":      c.Address,
			"updated_at":   c.UpdatedAt,
		}).
		Where(sq.Eq{"id": c.ID})
	n, err := exec(ctx, r.q, "update contact", stmt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contacto %q duplicado", domain.ErrConstraint, c.Name)
		}
		return fmt.Errorf("update contact: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el contacto; los productos que lo tenían como proveedor quedan sin él (ON DELETE SET NULL).
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	if _, err := exec(ctx, r.q, "delete contact", psql.Delete("contacts").Where(sq.Eq{"id": id})); err != nil {
		if isInvalidText(err) {
			return nil
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// List lista contactos por nombre; kind vacío devuelve ambos tipos.
func (r *ContactRepo) List(ctx context.Context, kind entity.ContactKind, limit, offset int) ([]*entity.Contact, error) {
	b := psql.Select(contactColumns...).From("contacts")
	if kind != "" {
		b = b.Where(sq.Eq{"kind": string(kind)})
	}
	return selectAll[entity.Contact](ctx, r.q, "list contacts", paginate(b.OrderBy("name ASC"), limit, offset))
}
