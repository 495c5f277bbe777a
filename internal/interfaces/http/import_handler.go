package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/importer"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// ImportHandler carga masiva desde Excel (admin, multipart "file").
type ImportHandler struct {
	uc *importer.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *importer.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Products godoc
// @Summary      Importar productos desde Excel
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Hoja .xlsx"
// @Success      200   {object}  dto.ImportResultDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/imports/products [post]
func (h *ImportHandler) Products(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fmt.Errorf("%w: falta el archivo (campo file)", domain.ErrValidation))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	out, err := h.uc.ImportProducts(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Importar movimientos desde Excel
// @Description  Acepta el mismo formato que /api/reports/movements.xlsx. Cada fila pasa por las validaciones del registro.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Hoja .xlsx"
// @Success      200   {object}  dto.ImportResultDTO
// @Router       /api/imports/movements [post]
func (h *ImportHandler) Movements(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fmt.Errorf("%w: falta el archivo (campo file)", domain.ErrValidation))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	out, err := h.uc.ImportMovements(c.Context(), f, GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
