package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// maxMovementPage tope de filas de GET /api/movements.
const maxMovementPage = 1000

// MovementHandler registro y consulta del ledger (protegido).
type MovementHandler struct {
	svc *inventory.Service
	loc *time.Location
}

// NewMovementHandler construye el handler.
func NewMovementHandler(svc *inventory.Service, loc *time.Location) *MovementHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &MovementHandler{svc: svc, loc: loc}
}

// Record godoc
// @Summary      Registrar movimiento de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, direction o label, quantity entera > 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	qty, err := dinv.ParseQuantity(in.Quantity.String())
	if err != nil {
		return writeError(c, err)
	}
	var dir entity.Direction
	if strings.TrimSpace(in.Direction) != "" {
		if dir, err = entity.ParseDirection(in.Direction); err != nil {
			return writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		}
	}
	m, err := h.svc.RecordMovement(c.Context(), inventory.RecordInput{
		ProductID:    in.ProductID,
		Direction:    dir,
		Label:        in.Label,
		Quantity:     qty,
		DepotID:      in.DepotID,
		Counterparty: in.Counterparty,
		Comment:      in.Comment,
		CreatedBy:    GetUsername(c),
	})
	if err != nil && !recordedWithWarning(c, err) {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(*m))
}

// Transfer godoc
// @Summary      Traslado entre depósitos
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_depot_id, to_depot_id, quantity"
// @Success      201   {object}  dto.MovementListResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/transfer [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	qty, err := dinv.ParseQuantity(in.Quantity.String())
	if err != nil {
		return writeError(c, err)
	}
	legs, err := h.svc.Transfer(c.Context(), inventory.TransferInput{
		ProductID:   in.ProductID,
		FromDepotID: in.FromDepotID,
		ToDepotID:   in.ToDepotID,
		Quantity:    qty,
		Comment:     in.Comment,
		CreatedBy:   GetUsername(c),
	})
	if err != nil && !recordedWithWarning(c, err) {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{Items: make([]dto.MovementResponse, 0, len(legs))}
	for _, m := range legs {
		out.Items = append(out.Items, inventory.ToMovementResponse(m))
	}
	out.Total = len(out.Items)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Movimientos de todos los productos (más recientes primero por defecto)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        depot_id    query  string  false  "Depósito"
// @Param        from        query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to          query  string  false  "YYYY-MM-DD o RFC3339 (inclusive)"
// @Param        order       query  string  false  "asc o desc (por defecto)"
// @Param        limit       query  int     false  "Límite (máx. 1000)"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	f, err := movementFilter(c, h.loc, repository.OrderDesc)
	if err != nil {
		return writeError(c, err)
	}
	if f.Limit == 0 || f.Limit > maxMovementPage {
		f.Limit = maxMovementPage
	}
	if pid := c.Query("product_id"); pid != "" {
		f.ProductIDs = []string{pid}
	}
	out := dto.MovementListResponse{Items: make([]dto.MovementResponse, 0)}
	for m, err := range h.svc.Movements(c.Context(), f) {
		if err != nil {
			return writeError(c, err)
		}
		out.Items = append(out.Items, inventory.ToMovementResponse(m))
	}
	out.Total = len(out.Items)
	return c.JSON(out)
}

// movementFilter lee order, depot_id, from, to y limit de la query.
func movementFilter(c *fiber.Ctx, loc *time.Location, defaultOrder repository.SortOrder) (repository.MovementFilter, error) {
	f := repository.MovementFilter{Order: defaultOrder}
	switch strings.ToLower(c.Query("order")) {
	case "":
	case "asc":
		f.Order = repository.OrderAsc
	case "desc":
		f.Order = repository.OrderDesc
	default:
		return f, fmt.Errorf("%w: order debe ser asc o desc", domain.ErrValidation)
	}
	f.DepotID = c.Query("depot_id")
	var err error
	if f.From, err = queryDate(c, "from", loc, false); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to", loc, true); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("%w: to es anterior a from", domain.ErrValidation)
	}
	f.Limit = c.QueryInt("limit", 0)
	if f.Limit < 0 {
		return f, fmt.Errorf("%w: limit no puede ser negativo", domain.ErrValidation)
	}
	return f, nil
}
