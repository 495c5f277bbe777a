package postgres

import (
	"context"
	"fmt"
	"iter"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"id::text AS id",
	"product_id::text AS product_id",
	"direction",
	"label",
	"quantity",
	"COALESCE(depot_id::text, '') AS depot_id",
	"counterparty",
	"comment",
	"COALESCE(transfer_id::text, '') AS transfer_id",
	"created_by",
	`"timestamp"`,
}

// MovementRepo ledger de movimientos sobre PostgreSQL. La tabla rechaza UPDATE y DELETE por trigger.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el repositorio; q puede ser el pool o una transacción.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta un movimiento ya validado.
func (r *MovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	stmt := psql.Insert("stock_movements").
		Columns("id", "product_id", "direction", "label", "quantity", "depot_id",
			"counterparty", "comment", "transfer_id", "created_by", `"timestamp"`).
		Values(m.ID, m.ProductID, string(m.Direction), m.Label, m.Quantity, nullIfEmpty(m.DepotID),
			m.Counterparty, m.Comment, nullIfEmpty(m.TransferID), m.CreatedBy, m.Timestamp)
	if _, err := exec(ctx, r.q, "append movement", stmt); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o depósito inexistente", domain.ErrValidation)
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos de un producto.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, f repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	f.ProductIDs = []string{productID}
	return r.List(ctx, f)
}

// List recorre el ledger con un cursor; los movimientos se leen a medida que se consumen.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	return func(yield func(entity.StockMovement, error) bool) {
		sql, args, err := movementQuery(f).ToSql()
		if err != nil {
			yield(entity.StockMovement{}, fmt.Errorf("list movements: build query: %w", err))
			return
		}
		rows, err := r.q.Query(ctx, sql, args...)
		if err != nil {
			yield(entity.StockMovement{}, fmt.Errorf("list movements: %w", err))
			return
		}
		defer rows.Close()

		scanner := pgxscan.NewRowScanner(rows)
		for rows.Next() {
			var m entity.StockMovement
			if err := scanner.Scan(&m); err != nil {
				yield(entity.StockMovement{}, fmt.Errorf("scan movement: %w", err))
				return
			}
			if !yield(m, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(entity.StockMovement{}, fmt.Errorf("list movements: %w", err))
		}
	}
}

// movementQuery traduce el filtro a SQL. El orden es (timestamp, seq) para desempatar
// movimientos con la misma marca de tiempo en orden de inserción.
func movementQuery(f repository.MovementFilter) sq.SelectBuilder {
	b := psql.Select(movementColumns...).From("stock_movements")
	if len(f.ProductIDs) == 1 {
		b = b.Where(sq.Eq{"product_id": f.ProductIDs[0]})
	} else if len(f.ProductIDs) > 1 {
		b = b.Where(sq.Eq{"product_id": f.ProductIDs})
	}
	if f.DepotID != "" {
		b = b.Where(sq.Eq{"depot_id": f.DepotID})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{`"timestamp"`: *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{`"timestamp"`: *f.To})
	}
	if f.Order == repository.OrderDesc {
		b = b.OrderBy(`"timestamp" DESC`, "seq DESC")
	} else {
		b = b.OrderBy(`"timestamp" ASC`, "seq ASC")
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	return b
}

// ExistsForProduct indica si el producto tiene al menos un movimiento.
func (r *MovementRepo) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	return r.exists(ctx, "product_id", productID)
}

// ExistsForDepot indica si algún movimiento referencia el depósito.
func (r *MovementRepo) ExistsForDepot(ctx context.Context, depotID string) (bool, error) {
	return r.exists(ctx, "depot_id", depotID)
}

func (r *MovementRepo) exists(ctx context.Context, column, id string) (bool, error) {
	sub := psql.Select("1").From("stock_movements").Where(sq.Eq{column: id}).Limit(1)
	sql, args, err := sub.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("movement exists: build query: %w", err)
	}
	var found bool
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("movement exists: %w", err)
	}
	return found, nil
}
