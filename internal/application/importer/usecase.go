// Package importer carga productos y movimientos desde planillas, fila por fila, a través de los
// mismos casos de uso que la API. Una fila inválida no detiene la importación.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	lockKey = "ledger:import"
	lockTTL = 10 * time.Minute
)

// ImportUseCase importación masiva de productos y movimientos.
type ImportUseCase struct {
	reader   SheetReader
	lock     Lock
	svc      *inventory.Service
	products *usecase.ProductUseCase
	contacts *usecase.ContactUseCase
	repo     repository.ProductRepository
	depots   repository.DepotRepository
}

// NewImportUseCase construye el caso de uso. lock puede ser nil (sin exclusión).
func NewImportUseCase(
	reader SheetReader,
	lock Lock,
	svc *inventory.Service,
	products *usecase.ProductUseCase,
	contacts *usecase.ContactUseCase,
	repo repository.ProductRepository,
	depots repository.DepotRepository,
) *ImportUseCase {
	return &ImportUseCase{reader: reader, lock: lock, svc: svc, products: products, contacts: contacts, repo: repo, depots: depots}
}

func (uc *ImportUseCase) exclusive(ctx context.Context, fn func() error) error {
	if uc.lock == nil {
		return fn()
	}
	release, err := uc.lock.Obtain(ctx, lockKey, lockTTL)
	if err != nil {
		return err
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()
	return fn()
}

// ImportProducts crea un producto por fila. Las filas cuyo Code ya existe se omiten.
// El código de la planilla no se reutiliza: cada producto nuevo recibe el siguiente de la secuencia.
func (uc *ImportUseCase) ImportProducts(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	rows, err := uc.reader.ReadProducts(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	res := &dto.ImportResultDTO{Errors: []dto.ImportRowError{}}
	err = uc.exclusive(ctx, func() error {
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			skipped, err := uc.importProduct(ctx, row)
			switch {
			case err != nil:
				res.Errors = append(res.Errors, dto.ImportRowError{Row: row.Row, Message: err.Error()})
			case skipped:
				res.Skipped++
			default:
				res.Imported++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *ImportUseCase) importProduct(ctx context.Context, row dto.ProductImportRow) (skipped bool, err error) {
	if code := strings.TrimSpace(row.Code); code != "" {
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return true, nil
		}
	}
	req := dto.CreateProductRequest{
		Name:        row.Name,
		Category:    row.Category,
		Unit:        row.Unit,
		Description: row.Description,
	}
	if s := strings.TrimSpace(row.Price); s != "" {
		req.Price, err = decimal.NewFromString(s)
		if err != nil {
			return false, fmt.Errorf("precio %q inválido", row.Price)
		}
	}
	if s := strings.TrimSpace(row.Threshold); s != "" {
		th, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return false, fmt.Errorf("umbral %q inválido", row.Threshold)
		}
		req.Threshold = &th
	}
	if s := strings.TrimSpace(row.Supplier); s != "" {
		supplier, err := uc.contacts.GetOrCreateSupplier(ctx, s)
		if err != nil {
			return false, err
		}
		req.SupplierID = supplier.ID
	}
	_, err = uc.products.Create(ctx, req)
	return false, err
}

// ImportMovements registra cada fila con RecordMovement, en el orden cronológico de la planilla.
// Los movimientos reciben la fecha del servidor; el orden relativo se conserva.
func (uc *ImportUseCase) ImportMovements(ctx context.Context, r io.Reader, createdBy string) (*dto.ImportResultDTO, error) {
	rows, err := uc.reader.ReadMovements(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	slices.SortStableFunc(rows, func(a, b dto.MovementImportRow) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	res := &dto.ImportResultDTO{Errors: []dto.ImportRowError{}}
	products := map[string]*entity.Product{}
	depots := map[string]string{}
	err = uc.exclusive(ctx, func() error {
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := uc.importMovement(ctx, row, createdBy, products, depots); err != nil {
				res.Errors = append(res.Errors, dto.ImportRowError{Row: row.Row, Message: err.Error()})
				continue
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(res.Errors, func(a, b dto.ImportRowError) int { return a.Row - b.Row })
	return res, nil
}

func (uc *ImportUseCase) importMovement(
	ctx context.Context,
	row dto.MovementImportRow,
	createdBy string,
	products map[string]*entity.Product,
	depots map[string]string,
) error {
	code := strings.TrimSpace(row.ProductCode)
	p, ok := products[code]
	if !ok {
		var err error
		if p, err = uc.repo.GetByCode(ctx, code); err != nil {
			return err
		}
		products[code] = p
	}
	if p == nil {
		return fmt.Errorf("producto %q desconocido", code)
	}
	qty, err := dinv.ParseQuantity(row.Quantity)
	if err != nil {
		return err
	}
	in := inventory.RecordInput{
		ProductID:    p.ID,
		Label:        row.Label,
		Quantity:     qty,
		Counterparty: row.Counterparty,
		Comment:      row.Comment,
		CreatedBy:    createdBy,
	}
	if strings.TrimSpace(row.Direction) != "" {
		if in.Direction, err = entity.ParseDirection(row.Direction); err != nil {
			return err
		}
	}
	if name := strings.TrimSpace(row.Depot); name != "" {
		id, ok := depots[name]
		if !ok {
			d, err := uc.depots.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("depósito %q desconocido", name)
			}
			id = d.ID
			depots[name] = id
		}
		in.DepotID = id
	}
	if _, err := uc.svc.RecordMovement(ctx, in); err != nil && !errors.Is(err, domain.ErrCacheInvalidation) {
		return err
	}
	return nil
}
