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

// DepotUseCase casos de uso CRUD para depósitos.
type DepotUseCase struct {
	repo      repository.DepotRepository
	movements repository.MovementRepository
	now       func() time.Time
}

// NewDepotUseCase construye el caso de uso.
func NewDepotUseCase(repo repository.DepotRepository, movements repository.MovementRepository) *DepotUseCase {
	return &DepotUseCase{repo: repo, movements: movements, now: time.Now}
}

// Create crea un depósito. El nombre es único sin distinguir mayúsculas.
func (uc *DepotUseCase) Create(ctx context.Context, in dto.CreateDepotRequest) (*dto.DepotResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get depot: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe el depósito %q", domain.ErrConstraint, name)
	}
	now := uc.now().UTC()
	depot := &entity.Depot{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, depot); err != nil {
		return nil, fmt.Errorf("create depot: %w", err)
	}
	return toDepotResponse(depot), nil
}

func (uc *DepotUseCase) get(ctx context.Context, id string) (*entity.Depot, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get depot: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: depósito %s", domain.ErrNotFound, id)
	}
	return d, nil
}

// GetByID obtiene un depósito por ID.
func (uc *DepotUseCase) GetByID(ctx context.Context, id string) (*dto.DepotResponse, error) {
	d, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDepotResponse(d), nil
}

// Update renombra o cambia la dirección. Los movimientos guardan el ID, así que no hay cascada.
func (uc *DepotUseCase) Update(ctx context.Context, id string, in dto.UpdateDepotRequest) (*dto.DepotResponse, error) {
	d, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name requerido", domain.ErrValidation)
		}
		d.Name = name
	}
	if in.Address != nil {
		d.Address = *in.Address
	}
	d.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update depot: %w", err)
	}
	return toDepotResponse(d), nil
}

// Delete elimina un depósito sin movimientos. Con movimientos devuelve ErrConflict.
func (uc *DepotUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	used, err := uc.movements.ExistsForDepot(ctx, id)
	if err != nil {
		return fmt.Errorf("check movements: %w", err)
	}
	if used {
		return fmt.Errorf("%w: el depósito tiene movimientos", domain.ErrConflict)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete depot: %w", err)
	}
	return nil
}

// List lista todos los depósitos.
func (uc *DepotUseCase) List(ctx context.Context) ([]dto.DepotResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list depots: %w", err)
	}
	items := make([]dto.DepotResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDepotResponse(d))
	}
	return items, nil
}

// Names mapa id → nombre para los reportes.
func (uc *DepotUseCase) Names(ctx context.Context) (map[string]string, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list depots: %w", err)
	}
	names := make(map[string]string, len(list))
	for _, d := range list {
		names[d.ID] = d.Name
	}
	return names, nil
}

func toDepotResponse(d *entity.Depot) *dto.DepotResponse {
	return &dto.DepotResponse{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
