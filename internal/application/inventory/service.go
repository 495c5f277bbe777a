// Package inventory expone el Service de inventario: registro de movimientos en el ledger,
// stock derivado, clasificación contra umbrales, traslados y verificación de inventario.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Deps dependencias del Service. Cache, Metrics, Clock, Classes y Policy son opcionales.
type Deps struct {
	Products  repository.ProductRepository
	Depots    repository.DepotRepository
	Movements repository.MovementRepository
	Tx        TxRunner
	Cache     StockCache
	Metrics   Metrics
	Classes   *dinv.Classes
	Policy    *dinv.Policy
	Clock     func() time.Time
}

// Service fachada del núcleo de inventario.
type Service struct {
	products  repository.ProductRepository
	depots    repository.DepotRepository
	movements repository.MovementRepository
	tx        TxRunner
	cache     StockCache
	metrics   Metrics
	classes   *dinv.Classes
	policy    dinv.Policy
	calc      *dinv.Calculator
	now       func() time.Time
}

// NewService construye el servicio.
func NewService(d Deps) *Service {
	s := &Service{
		products:  d.Products,
		depots:    d.Depots,
		movements: d.Movements,
		tx:        d.Tx,
		cache:     d.Cache,
		metrics:   d.Metrics,
		classes:   d.Classes,
		now:       d.Clock,
		policy:    dinv.DefaultPolicy(),
	}
	if d.Policy != nil {
		s.policy = *d.Policy
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.metrics == nil {
		s.metrics = noMetrics{}
	}
	if s.classes == nil {
		s.classes = dinv.DefaultClasses()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.calc = dinv.NewCalculator(d.Movements, s.classes)
	return s
}

// Classes tabla de etiquetas en uso.
func (s *Service) Classes() *dinv.Classes { return s.classes }

// Policy política de presentación en uso.
func (s *Service) Policy() dinv.Policy { return s.policy }

// RecordInput entrada para registrar un movimiento.
// Direction puede omitirse si Label está en la tabla de etiquetas.
type RecordInput struct {
	ProductID    string
	Direction    entity.Direction
	Label        string
	Quantity     int64
	DepotID      string
	Counterparty string
	Comment      string
	CreatedBy    string
}

// RecordMovement valida y agrega un movimiento al ledger. Las validaciones ocurren antes de
// cualquier escritura. Si el movimiento quedó guardado pero la caché no pudo invalidarse,
// devuelve el movimiento junto con un error que envuelve domain.ErrCacheInvalidation.
func (s *Service) RecordMovement(ctx context.Context, in RecordInput) (*entity.StockMovement, error) {
	m, err := s.prepare(ctx, in)
	if err != nil {
		s.metrics.MovementRejected(rejectReason(err))
		return nil, err
	}
	err = s.tx.Run(ctx, []string{m.ProductID}, func(movRepo repository.MovementRepository) error {
		return movRepo.Append(ctx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	s.metrics.MovementRecorded(string(m.Direction))
	if err := s.cache.Invalidate(ctx, m.ProductID); err != nil {
		return m, fmt.Errorf("%w: %v", domain.ErrCacheInvalidation, err)
	}
	return m, nil
}

// prepare aplica las validaciones del registro y construye el movimiento con id y fecha del servidor.
func (s *Service) prepare(ctx context.Context, in RecordInput) (*entity.StockMovement, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrValidation)
	}
	if err := dinv.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	dir, err := s.classes.Resolve(in.Label, in.Direction)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if in.DepotID != "" {
		if err := s.requireDepot(ctx, in.DepotID); err != nil {
			return nil, err
		}
	}
	return &entity.StockMovement{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		Direction:    dir,
		Label:        s.classes.Canonical(in.Label),
		Quantity:     in.Quantity,
		DepotID:      in.DepotID,
		Counterparty: in.Counterparty,
		Comment:      in.Comment,
		CreatedBy:    in.CreatedBy,
		Timestamp:    s.now().UTC(),
	}, nil
}

// activeProduct devuelve el producto si existe y no está archivado.
// Una referencia desconocida es un error de validación del movimiento.
func (s *Service) activeProduct(ctx context.Context, productID string) (*entity.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s desconocido", domain.ErrValidation, productID)
	}
	if p.Archived {
		return nil, fmt.Errorf("%w: el producto %s está archivado", domain.ErrValidation, p.Code)
	}
	return p, nil
}

func (s *Service) requireDepot(ctx context.Context, depotID string) error {
	d, err := s.depots.GetByID(ctx, depotID)
	if err != nil {
		return fmt.Errorf("get depot: %w", err)
	}
	if d == nil {
		return fmt.Errorf("%w: depósito %s desconocido", domain.ErrValidation, depotID)
	}
	return nil
}

func (s *Service) product(ctx context.Context, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrValidation)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return p, nil
}

// MovementsFor devuelve los movimientos del producto como secuencia perezosa.
// El orden (ascendente o descendente por fecha) lo decide el llamador en filter.Order.
func (s *Service) MovementsFor(ctx context.Context, productID string, filter repository.MovementFilter) (iter.Seq2[entity.StockMovement, error], error) {
	if _, err := s.product(ctx, productID); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrValidation)
	}
	return s.movements.ListByProduct(ctx, productID, filter), nil
}

// Movements lista el ledger completo con los filtros dados.
func (s *Service) Movements(ctx context.Context, filter repository.MovementFilter) iter.Seq2[entity.StockMovement, error] {
	return s.movements.List(ctx, filter)
}

// StockOf stock crudo del producto (puede ser negativo). depotID vacío = todos los depósitos.
func (s *Service) StockOf(ctx context.Context, productID, depotID string) (int64, error) {
	if _, err := s.product(ctx, productID); err != nil {
		return 0, err
	}
	return s.stockOf(ctx, productID, depotID)
}

// stockOf consulta la caché bajo la generación vigente y, si no hay valor, recorre el ledger.
// Los fallos de la caché no afectan el resultado: se recalcula desde el ledger.
func (s *Service) stockOf(ctx context.Context, productID, depotID string) (int64, error) {
	gen, genErr := s.cache.Generation(ctx, productID)
	if genErr == nil {
		if qty, ok, err := s.cache.Get(ctx, productID, gen, depotID); err == nil && ok {
			s.metrics.CacheLookup(true)
			return qty, nil
		}
	}
	s.metrics.CacheLookup(false)
	qty, err := s.calc.StockOf(ctx, productID, depotID)
	if err != nil {
		return 0, err
	}
	if genErr == nil {
		_ = s.cache.Set(ctx, productID, gen, depotID, qty)
	}
	return qty, nil
}

// StockView stock crudo, presentado y clasificación de un producto.
type StockView struct {
	ProductID string
	DepotID   string
	Raw       int64
	Stock     int64
	Threshold int64
	Status    dinv.Status
}

// StockView calcula la vista de stock de un producto.
func (s *Service) StockView(ctx context.Context, productID, depotID string) (*StockView, error) {
	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	raw, err := s.stockOf(ctx, productID, depotID)
	if err != nil {
		return nil, err
	}
	return &StockView{
		ProductID: p.ID,
		DepotID:   depotID,
		Raw:       raw,
		Stock:     s.policy.Present(raw),
		Threshold: p.Threshold,
		Status:    s.policy.Classify(raw, p.Threshold),
	}, nil
}

// Classify clasifica un stock con la política configurada.
func (s *Service) Classify(stock, threshold int64) dinv.Status {
	return s.policy.Classify(stock, threshold)
}

// StockLinesFilter filtros del listado de stock.
type StockLinesFilter struct {
	Category        string
	DepotID         string
	IncludeArchived bool
}

// StockLines todos los productos con su stock derivado, en una sola pasada sobre el ledger.
func (s *Service) StockLines(ctx context.Context, f StockLinesFilter) ([]report.StockLine, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{Category: f.Category, IncludeArchived: f.IncludeArchived})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return []report.StockLine{}, nil
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	totals, err := dinv.FoldByProduct(s.classes, s.movements.List(ctx, repository.MovementFilter{ProductIDs: ids, DepotID: f.DepotID}))
	if err != nil {
		return nil, fmt.Errorf("fold ledger: %w", err)
	}
	lines := make([]report.StockLine, 0, len(products))
	for _, p := range products {
		raw := totals[p.ID]
		lines = append(lines, report.StockLine{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      p.Name,
			Category:  p.Category,
			Unit:      p.Unit,
			Price:     p.Price,
			Threshold: p.Threshold,
			Raw:       raw,
			Stock:     s.policy.Present(raw),
			Status:    s.policy.Classify(raw, p.Threshold),
			Archived:  p.Archived,
		})
	}
	return lines, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "error"
	}
}
