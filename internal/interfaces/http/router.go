package http

import (
	"errors"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/importer"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	DepotUC       *usecase.DepotUseCase
	ContactUC     *usecase.ContactUseCase
	Inventory     *inventory.Service
	Replenishment *inventory.ReplenishmentUseCase
	Reports       *analytics.ReportUseCase
	Importer      *importer.ImportUseCase
	JWTSecret     string
	Location      *time.Location

	Logger         *logger.Logger
	Observer       RequestObserver
	MetricsHandler nethttp.Handler // nil = sin /metrics
}

// NewApp construye la aplicación Fiber con middlewares comunes, /health, /metrics y la API.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "inventario-ledger",
		BodyLimit:    20 * 1024 * 1024, // importaciones Excel
		ErrorHandler: errorHandler,
	})
	app.Use(RequestLogger(deps.Logger, deps.Observer))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	Router(app, deps)
	return app
}

// errorHandler errores que no pasan por writeError (rutas inexistentes, panics recuperados).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(nethttp.StatusText(fe.Code), " ", "_"))
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	admin := RequireAdmin()

	protected.Get("/auth/me", authHandler.Me)

	users := protected.Group("/users", admin)
	users.Get("/", authHandler.ListUsers)
	users.Post("/", authHandler.CreateUser)
	users.Get("/:id", authHandler.GetUser)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Inventory, deps.Location)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", admin, productHandler.Remove)
	products.Post("/:id/duplicate", productHandler.Duplicate)
	products.Post("/:id/unarchive", productHandler.Unarchive)
	products.Get("/:id/stock", productHandler.Stock)
	products.Get("/:id/movements", productHandler.Movements)

	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Inventory, deps.Location)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Record)
	movements.Post("/transfer", movementHandler.Transfer)

	depots := protected.Group("/depots")
	depotHandler := NewDepotHandler(deps.DepotUC)
	depots.Get("/", depotHandler.List)
	depots.Post("/", depotHandler.Create)
	depots.Get("/:id", depotHandler.GetByID)
	depots.Put("/:id", depotHandler.Update)
	depots.Delete("/:id", admin, depotHandler.Delete)

	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Get("/", contactHandler.List)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Put("/:id", contactHandler.Update)
	contacts.Delete("/:id", contactHandler.Delete)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.Replenishment, deps.Location)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/top", reportHandler.Top)
	reports.Get("/movements-per-day", reportHandler.MovementsPerDay)
	reports.Get("/distribution", reportHandler.Distribution)
	reports.Get("/total-value", reportHandler.TotalValue)
	reports.Get("/replenishment", reportHandler.Replenishment)
	reports.Get("/stock.xlsx", reportHandler.StockXLSX)
	reports.Get("/stock.pdf", reportHandler.StockPDF)
	reports.Get("/movements.xlsx", reportHandler.MovementsXLSX)

	verificationHandler := NewVerificationHandler(deps.Inventory, deps.Reports)
	protected.Post("/inventory/verification", verificationHandler.Verify)

	imports := protected.Group("/imports", admin)
	importHandler := NewImportHandler(deps.Importer)
	imports.Post("/products", importHandler.Products)
	imports.Post("/movements", importHandler.Movements)
}
