package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ReportHandler dashboard, agregaciones y exportaciones (protegido).
type ReportHandler struct {
	uc            *analytics.ReportUseCase
	replenishment *inventory.ReplenishmentUseCase
	loc           *time.Location
	now           func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, replenishment *inventory.ReplenishmentUseCase, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{uc: uc, replenishment: replenishment, loc: loc, now: time.Now}
}

// Dashboard godoc
// @Summary      KPIs del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Top godoc
// @Summary      Productos con más stock o valor
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        n         query  int     false  "Cantidad"  default(5)
// @Param        by        query  string  false  "stock o value"
// @Param        category  query  string  false  "Categoría"
// @Param        depot_id  query  string  false  "Depósito"
// @Success      200  {array}  dto.StockLineResponse
// @Router       /api/reports/top [get]
func (h *ReportHandler) Top(c *fiber.Ctx) error {
	out, err := h.uc.TopN(c.Context(), c.QueryInt("n", 5), c.Query("by"), stockLinesFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MovementsPerDay godoc
// @Summary      Movimientos por día, sin huecos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "YYYY-MM-DD (por defecto hace 6 días)"
// @Param        to          query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Param        product_id  query  string  false  "Producto"
// @Param        depot_id    query  string  false  "Depósito"
// @Success      200  {array}  dto.DayBucketDTO
// @Failure      400  {object}  dto.ErrorResponse  "rango invertido o de más de 366 días"
// @Router       /api/reports/movements-per-day [get]
func (h *ReportHandler) MovementsPerDay(c *fiber.Ctx) error {
	today := h.now().In(h.loc)
	to, err := queryDate(c, "to", h.loc, false)
	if err != nil {
		return writeError(c, err)
	}
	if to == nil {
		to = &today
	}
	from, err := queryDate(c, "from", h.loc, false)
	if err != nil {
		return writeError(c, err)
	}
	if from == nil {
		start := to.AddDate(0, 0, -6)
		from = &start
	}
	out, err := h.uc.MovementsPerDay(c.Context(), *from, *to, c.Query("product_id"), c.Query("depot_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Distribution godoc
// @Summary      Distribución por categoría, depósito o etiqueta
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        by       query  string  true   "category, depot o label"
// @Param        measure  query  string  false  "stock (por defecto) o count"
// @Success      200  {array}  dto.DistributionBucketDTO
// @Router       /api/reports/distribution [get]
func (h *ReportHandler) Distribution(c *fiber.Ctx) error {
	out, err := h.uc.Distribution(c.Context(), c.Query("by"), c.Query("measure"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TotalValue godoc
// @Summary      Valor total del stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TotalValueDTO
// @Router       /api/reports/total-value [get]
func (h *ReportHandler) TotalValue(c *fiber.Ctx) error {
	out, err := h.uc.TotalValue(c.Context(), stockLinesFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su umbral con la cantidad sugerida para volver al stock ideal.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        depot_id  query  string  false  "Depósito. Vacío = stock global."
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), c.Query("depot_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// StockXLSX listado de stock en Excel.
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	data, err := h.uc.StockSpreadsheet(c.Context(), stockLinesFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimeXLSX, h.fileName("stock", "xlsx"), data)
}

// StockPDF informe de stock en PDF.
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	data, err := h.uc.StockPDF(c.Context(), stockLinesFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimePDF, h.fileName("stock", "pdf"), data)
}

// MovementsXLSX ledger en Excel (mismo formato que la importación de movimientos).
func (h *ReportHandler) MovementsXLSX(c *fiber.Ctx) error {
	f, err := movementFilter(c, h.loc, repository.OrderAsc)
	if err != nil {
		return writeError(c, err)
	}
	if pid := c.Query("product_id"); pid != "" {
		f.ProductIDs = []string{pid}
	}
	data, err := h.uc.MovementsSpreadsheet(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimeXLSX, h.fileName("movimientos", "xlsx"), data)
}

func (h *ReportHandler) fileName(base, ext string) string {
	return fmt.Sprintf("%s_%s.%s", base, h.now().In(h.loc).Format("20060102"), ext)
}

func stockLinesFilter(c *fiber.Ctx) inventory.StockLinesFilter {
	return inventory.StockLinesFilter{
		Category:        c.Query("category"),
		DepotID:         c.Query("depot_id"),
		IncludeArchived: c.QueryBool("include_archived", false),
	}
}

func sendFile(c *fiber.Ctx, contentType, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
