package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id::text AS id", "code", "name", "category", "unit", "price", "description", "threshold",
	"COALESCE(supplier_id::text, '') AS supplier_id", "archived", "created_at", "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	stmt := psql.Insert("products").
		Columns("id", "code", "name", "category", "unit", "price", "description", "threshold",
			"supplier_id", "archived", "created_at", "updated_at").
		Values(p.ID, p.Code, p.Name, p.Category, p.Unit, p.Price, p.Description, p.Threshold,
			nullIfEmpty(p.SupplierID), p.Archived, p.CreatedAt, p.UpdatedAt)
	if _, err := exec(ctx, r.q, "insert product", stmt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el código %s ya existe", domain.ErrConstraint, p.Code)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor inexistente", domain.ErrValidation)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	q := psql.Select(productColumns...).From("products").Where(sq.Eq{"id": id})
	return getOne[entity.Product](ctx, r.q, "get product by id", q)
}

// GetByCode obtiene un producto por su código PRD-xxxx.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	q := psql.Select(productColumns...).From("products").Where(sq.Eq{"code": code})
	return getOne[entity.Product](ctx, r.q, "get product by code", q)
}

// Update modifica los atributos editables. El código y el archivado no se tocan.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	stmt := psql.Update("products").
		Set("name", p.Name).
		Set("category", p.Category).
		Set("unit", p.Unit).
		Set("price", p.Price).
		Set("description", p.Description).
		Set("threshold", p.Threshold).
		Set("supplier_id", nullIfEmpty(p.SupplierID)).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID})
	n, err := exec(ctx, r.q, "update product", stmt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor inexistente", domain.ErrValidation)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetArchived marca o desmarca el producto como archivado.
func (r *ProductRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	stmt := psql.Update("products").
		Set("archived", archived).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	n, err := exec(ctx, r.q, "archive product", stmt)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra físicamente un producto. Falla con ErrConflict si el ledger lo referencia.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.q, "delete product", psql.Delete("products").Where(sq.Eq{"id": id}))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el producto tiene movimientos", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por código.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	return selectAll[entity.Product](ctx, r.q, "list products", productListQuery(f))
}

func productListQuery(f repository.ProductFilter) sq.SelectBuilder {
	b := psql.Select(productColumns...).From("products")
	if !f.IncludeArchived {
		b = b.Where(sq.Eq{"archived": false})
	}
	if f.Category != "" {
		b = b.Where(sq.Eq{"category": f.Category})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		b = b.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"code": pattern}})
	}
	return paginate(b.OrderBy("code ASC"), f.Limit, f.Offset)
}

// NextCodeNumber reserva el siguiente valor de la secuencia product_code_seq.
func (r *ProductRepo) NextCodeNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('product_code_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next product code: %w", err)
	}
	return n, nil
}

// escapeLike neutraliza los comodines de LIKE en texto del usuario.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
