package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductDefaults valores aplicados cuando la solicitud no los trae.
type ProductDefaults struct {
	Threshold int64
	Unit      string
}

// ProductUseCase casos de uso del catálogo. El stock no se edita aquí: se deriva de los movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.MovementRepository
	contacts  repository.ContactRepository
	svc       *inventory.Service
	defaults  ProductDefaults
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movements repository.MovementRepository,
	contacts repository.ContactRepository,
	svc *inventory.Service,
	defaults ProductDefaults,
) *ProductUseCase {
	if defaults.Unit == "" {
		defaults.Unit = "pcs"
	}
	return &ProductUseCase{repo: repo, movements: movements, contacts: contacts, svc: svc, defaults: defaults, now: time.Now}
}

// Create crea un producto con el siguiente código de la secuencia (PRD-0001, PRD-0002, ...).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrValidation)
	}
	threshold := uc.defaults.Threshold
	if in.Threshold != nil {
		threshold = *in.Threshold
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold no puede ser negativo", domain.ErrValidation)
	}
	if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = uc.defaults.Unit
	}

	now := uc.now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Unit:        unit,
		Price:       in.Price,
		Description: in.Description,
		Threshold:   threshold,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.insert(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// insert asigna el código y guarda el producto.
func (uc *ProductUseCase) insert(ctx context.Context, p *entity.Product) error {
	n, err := uc.repo.NextCodeNumber(ctx)
	if err != nil {
		return fmt.Errorf("next product code: %w", err)
	}
	p.Code = entity.FormatProductCode(n)
	if err := uc.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (uc *ProductUseCase) checkSupplier(ctx context.Context, supplierID string) error {
	if supplierID == "" {
		return nil
	}
	c, err := uc.contacts.GetByID(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("get supplier: %w", err)
	}
	if c == nil || c.Kind != entity.ContactSupplier {
		return fmt.Errorf("%w: proveedor %s desconocido", domain.ErrValidation, supplierID)
	}
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// GetByID obtiene un producto con su stock derivado.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := uc.svc.StockView(ctx, id, "")
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetailResponse{
		ProductResponse: *toProductResponse(p),
		Stock:           inventory.ToStockViewResponse(view),
	}, nil
}

// Update modifica los atributos editables. El código y el estado de archivo no cambian aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
		}
		p.Name = name
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != "" {
		p.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrValidation)
		}
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Threshold != nil {
		if *in.Threshold < 0 {
			return nil, fmt.Errorf("%w: threshold no puede ser negativo", domain.ErrValidation)
		}
		p.Threshold = *in.Threshold
	}
	if in.SupplierID != nil {
		if err := uc.checkSupplier(ctx, *in.SupplierID); err != nil {
			return nil, err
		}
		p.SupplierID = *in.SupplierID
	}
	p.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return toProductResponse(p), nil
}

// Remove borra el producto si ningún movimiento lo referencia; si no, lo archiva.
func (uc *ProductUseCase) Remove(ctx context.Context, id string) (*dto.RemoveProductResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	used, err := uc.movements.ExistsForProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check movements: %w", err)
	}
	if used {
		if err := uc.repo.SetArchived(ctx, id, true); err != nil {
			return nil, fmt.Errorf("archive product: %w", err)
		}
		return &dto.RemoveProductResponse{ID: id, Archived: true}, nil
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return &dto.RemoveProductResponse{ID: id, Deleted: true}, nil
}

// Unarchive vuelve a habilitar un producto archivado.
func (uc *ProductUseCase) Unarchive(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Archived {
		return toProductResponse(p), nil
	}
	if err := uc.repo.SetArchived(ctx, id, false); err != nil {
		return nil, fmt.Errorf("unarchive product: %w", err)
	}
	p.Archived = false
	return toProductResponse(p), nil
}

// Duplicate copia los atributos bajo un código nuevo. La copia empieza sin movimientos.
func (uc *ProductUseCase) Duplicate(ctx context.Context, id string) (*dto.ProductResponse, error) {
	src, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	cp := *src
	cp.ID = uuid.New().String()
	cp.Name = src.Name + " (copia)"
	cp.Archived = false
	cp.CreatedAt, cp.UpdatedAt = now, now
	if err := uc.insert(ctx, &cp); err != nil {
		return nil, err
	}
	return toProductResponse(&cp), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: len(items)},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Category:    p.Category,
		Unit:        p.Unit,
		Price:       p.Price,
		Description: p.Description,
		Threshold:   p.Threshold,
		SupplierID:  p.SupplierID,
		Archived:    p.Archived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
