package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// VerificationHandler conciliación de conteos físicos contra el ledger.
type VerificationHandler struct {
	svc     *inventory.Service
	reports *analytics.ReportUseCase
}

// NewVerificationHandler construye el handler.
func NewVerificationHandler(svc *inventory.Service, reports *analytics.ReportUseCase) *VerificationHandler {
	return &VerificationHandler{svc: svc, reports: reports}
}

// Verify godoc
// @Summary      Verificación de inventario
// @Description  Compara los conteos con el stock teórico. apply=true (solo admin) registra
//
//	movimientos Inventory gain / Inventory loss por cada diferencia.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        format  query  string  false  "json (por defecto), xlsx o pdf"
// @Param        body    body   dto.VerificationRequest  true  "conteos"
// @Success      200  {array}   dto.VerificationLineResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/verification [post]
func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerificationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if in.Apply && !GetIsAdmin(c) {
		return writeError(c, domain.ErrForbidden)
	}
	format := strings.ToLower(c.Query("format", "json"))
	if format != "json" && format != "xlsx" && format != "pdf" {
		return badRequest(c, "VALIDATION", "format debe ser json, xlsx o pdf")
	}

	counts := make([]inventory.CountInput, 0, len(in.Counts))
	for _, ct := range in.Counts {
		counts = append(counts, inventory.CountInput{ProductID: ct.ProductID, DepotID: ct.DepotID, Counted: *ct.Counted})
	}
	lines, err := h.svc.Verify(c.Context(), counts, in.Apply, GetUsername(c))
	if err != nil && !recordedWithWarning(c, err) {
		return writeError(c, err)
	}
	out := inventory.ToVerificationResponses(lines)

	switch format {
	case "xlsx":
		data, err := h.reports.VerificationSpreadsheet(out)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, mimeXLSX, "verificacion.xlsx", data)
	case "pdf":
		data, err := h.reports.VerificationPDF(out, in.Apply)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, mimePDF, "verificacion.pdf", data)
	}
	return c.JSON(out)
}
