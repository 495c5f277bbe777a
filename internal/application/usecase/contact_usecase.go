package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ContactUseCase casos de uso para proveedores y clientes.
type ContactUseCase struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.ContactRepository) *ContactUseCase {
	return &ContactUseCase{repo: repo, now: time.Now}
}

// Create crea un contacto. Nombre e identificación fiscal son únicos por tipo.
func (uc *ContactUseCase) Create(ctx context.Context, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	kind := entity.ContactKind(strings.ToLower(in.Kind))
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: kind debe ser supplier o client", domain.ErrValidation)
	}
	c := &entity.Contact{
		ID:          uuid.New().String(),
		Kind:        kind,
		Name:        strings.TrimSpace(in.Name),
		FiscalID:    strings.TrimSpace(in.FiscalID),
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
	}
	if err := uc.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return toContactResponse(c), nil
}

func (uc *ContactUseCase) checkUnique(ctx context.Context, c *entity.Contact) error {
	byName, err := uc.repo.GetByName(ctx, c.Kind, c.Name)
	if err != nil {
		return fmt.Errorf("get contact: %w", err)
	}
	if byName != nil && byName.ID != c.ID {
		return fmt.Errorf("%w: ya existe %s %q", domain.ErrConstraint, c.Kind, c.Name)
	}
	if c.FiscalID == "" {
		return nil
	}
	byFiscal, err := uc.repo.GetByFiscalID(ctx, c.Kind, c.FiscalID)
	if err != nil {
		return fmt.Errorf("get contact: %w", err)
	}
	if byFiscal != nil && byFiscal.ID != c.ID {
		return fmt.Errorf("%w: identificación fiscal %s en uso", domain.ErrConstraint, c.FiscalID)
	}
	return nil
}

// GetOrCreateSupplier busca un proveedor por nombre y lo crea si no existe. Lo usa la importación.
func (uc *ContactUseCase) GetOrCreateSupplier(ctx context.Context, name string) (*entity.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de proveedor vacío", domain.ErrValidation)
	}
	existing, err := uc.repo.GetByName(ctx, entity.ContactSupplier, name)
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	now := uc.now().UTC()
	c := &entity.Contact{
		ID:        uuid.New().String(),
		Kind:      entity.ContactSupplier,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return c, nil
}

func (uc *ContactUseCase) get(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: contacto %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// GetByID obtiene un contacto.
func (uc *ContactUseCase) GetByID(ctx context.Context, id string) (*dto.ContactResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// Update modifica un contacto respetando la unicidad.
func (uc *ContactUseCase) Update(ctx context.Context, id string, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
		if c.Name == "" {
			return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
		}
	}
	if in.FiscalID != nil {
		c.FiscalID = strings.TrimSpace(*in.FiscalID)
	}
	if in.ContactName != nil {
		c.ContactName = *in.ContactName
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if err := uc.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	c.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return toContactResponse(c), nil
}

// Delete elimina un contacto. Los productos que lo tenían como proveedor quedan sin proveedor.
func (uc *ContactUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// List lista contactos, opcionalmente de un solo tipo.
func (uc *ContactUseCase) List(ctx context.Context, kind string, limit, offset int) (*dto.ContactListResponse, error) {
	k := entity.ContactKind(strings.ToLower(kind))
	if k != "" && !k.IsValid() {
		return nil, fmt.Errorf("%w: kind debe ser supplier o client", domain.ErrValidation)
	}
	list, err := uc.repo.List(ctx, k, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toContactResponse(c))
	}
	return &dto.ContactListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:          c.ID,
		Kind:        string(c.Kind),
		Name:        c.Name,
		FiscalID:    c.FiscalID,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
