package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	svc *inventory.Service
	loc *time.Location
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, svc *inventory.Service, loc *time.Location) *ProductHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ProductHandler{uc: uc, svc: svc, loc: loc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto con su stock derivado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category          query  string  false  "Categoría"
// @Param        search            query  string  false  "Nombre o código"
// @Param        include_archived  query  bool    false  "Incluir archivados"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), repository.ProductFilter{
		Category:        c.Query("category"),
		Search:          c.Query("search"),
		IncludeArchived: c.QueryBool("include_archived", false),
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (el código no cambia)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Eliminar producto (se archiva si tiene movimientos)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.RemoveProductResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Remove(c *fiber.Ctx) error {
	out, err := h.uc.Remove(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Unarchive vuelve a activar un producto archivado.
func (h *ProductHandler) Unarchive(c *fiber.Ctx) error {
	out, err := h.uc.Unarchive(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Duplicate copia el producto con un código nuevo; el stock de la copia empieza en 0.
func (h *ProductHandler) Duplicate(c *fiber.Ctx) error {
	out, err := h.uc.Duplicate(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Stock godoc
// @Summary      Stock derivado del ledger
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del producto"
// @Param        depot_id  query  string  false  "Solo este depósito"
// @Success      200  {object}  dto.StockViewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) Stock(c *fiber.Ctx) error {
	view, err := h.svc.StockView(c.Context(), c.Params("id"), c.Query("depot_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToStockViewResponse(view))
}

// Movements godoc
// @Summary      Movimientos de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del producto"
// @Param        order     query  string  false  "asc (por defecto) o desc"
// @Param        depot_id  query  string  false  "Depósito"
// @Param        from      query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to        query  string  false  "YYYY-MM-DD o RFC3339 (inclusive)"
// @Param        limit     query  int     false  "Límite"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	f, err := movementFilter(c, h.loc, repository.OrderAsc)
	if err != nil {
		return writeError(c, err)
	}
	seq, err := h.svc.MovementsFor(c.Context(), c.Params("id"), f)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{Items: make([]dto.MovementResponse, 0)}
	for m, err := range seq {
		if err != nil {
			return writeError(c, err)
		}
		out.Items = append(out.Items, inventory.ToMovementResponse(m))
	}
	out.Total = len(out.Items)
	return c.JSON(out)
}
