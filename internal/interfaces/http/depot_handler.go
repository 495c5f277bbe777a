package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// DepotHandler CRUD de depósitos (protegido; borrar requiere admin).
type DepotHandler struct {
	uc *usecase.DepotUseCase
}

// NewDepotHandler construye el handler.
func NewDepotHandler(uc *usecase.DepotUseCase) *DepotHandler {
	return &DepotHandler{uc: uc}
}

// Create godoc
// @Summary      Crear depósito
// @Tags         depots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepotRequest  true  "name, address"
// @Success      201   {object}  dto.DepotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/depots [post]
func (h *DepotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDepotRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar depósitos
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DepotResponse
// @Router       /api/depots [get]
func (h *DepotHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve un depósito.
func (h *DepotHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update renombra o cambia la dirección; los movimientos no se tocan.
func (h *DepotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDepotRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar depósito sin movimientos (admin)
// @Tags         depots
// @Security     Bearer
// @Param        id  path  string  true  "ID del depósito"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/depots/{id} [delete]
func (h *DepotHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
