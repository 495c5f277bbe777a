package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.DepotRepository = (*DepotRepo)(nil)

var depotColumns = []string{"id::text AS id", "name", "address", "created_at", "updated_at"}

// DepotRepo implementación del puerto DepotRepository sobre PostgreSQL.
type DepotRepo struct {
	q Querier
}

// NewDepotRepository construye el adaptador de persistencia para depósitos.
func NewDepotRepository(q Querier) *DepotRepo {
	return &DepotRepo{q: q}
}

// Create persiste un depósito. El nombre es único sin distinguir mayúsculas.
func (r *DepotRepo) Create(ctx context.Context, d *entity.Depot) error {
	stmt := psql.Insert("depots").
		Columns("id", "name", "address", "created_at", "updated_at").
		Values(d.ID, d.Name, d.Address, d.CreatedAt, d.UpdatedAt)
	if _, err := exec(ctx, r.q, "insert depot", stmt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un depósito %q", domain.ErrConstraint, d.Name)
		}
		return fmt.Errorf("insert depot: %w", err)
	}
	return nil
}

// GetByID obtiene un depósito; (nil, nil) si no existe.
func (r *DepotRepo) GetByID(ctx context.Context, id string) (*entity.Depot, error) {
	q := psql.Select(depotColumns...).From("depots").Where(sq.Eq{"id": id})
	return getOne[entity.Depot](ctx, r.q, "get depot by id", q)
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *DepotRepo) GetByName(ctx context.Context, name string) (*entity.Depot, error) {
	q := psql.Select(depotColumns...).From("depots").Where("lower(name) = lower(?)", name)
	return getOne[entity.Depot](ctx, r.q, "get depot by name", q)
}

// Update renombra o cambia la dirección. Los movimientos referencian el ID, no el nombre.
func (r *DepotRepo) Update(ctx context.Context, d *entity.Depot) error {
	stmt := psql.Update("depots").
		Set("name", d.Name).
		Set("address", d.Address).
		Set("updated_at", d.UpdatedAt).
		Where(sq.Eq{"id": d.ID})
	n, err := exec(ctx, r.q, "update depot", stmt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un depósito %q", domain.ErrConstraint, d.Name)
		}
		return fmt.Errorf("update depot: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un depósito sin movimientos.
func (r *DepotRepo) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.q, "delete depot", psql.Delete("depots").Where(sq.Eq{"id": id}))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el depósito tiene movimientos", domain.ErrConflict)
		}
		return fmt.Errorf("delete depot: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todos los depósitos por nombre.
func (r *DepotRepo) List(ctx context.Context) ([]*entity.Depot, error) {
	q := psql.Select(depotColumns...).From("depots").OrderBy("name ASC")
	return selectAll[entity.Depot](ctx, r.q, "list depots", q)
}
