// Package bootstrap arma las dependencias de la aplicación a partir de la configuración.
// Lo usan los binarios de cmd/ y los tests de la API.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/importer"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpapi "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/jhoicas/inventario-ledger/pkg/migrate"
)

// Storage adaptadores de persistencia (memoria o PostgreSQL).
type Storage struct {
	Products  repository.ProductRepository
	Depots    repository.DepotRepository
	Contacts  repository.ContactRepository
	Users     repository.UserRepository
	Movements repository.MovementRepository
	Tx        inventory.TxRunner
	close     func()
}

// Close libera las conexiones.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewMemoryStorage almacenamiento en proceso; los datos se pierden al reiniciar.
func NewMemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Products:  memory.NewProductRepository(store),
		Depots:    memory.NewDepotRepository(store),
		Contacts:  memory.NewContactRepository(store),
		Users:     memory.NewUserRepository(store),
		Movements: memory.NewMovementRepository(store),
		Tx:        memory.NewTxRunner(store),
	}
}

// OpenStorage abre el almacenamiento configurado en APP_STORAGE. Con autoMigrate aplica
// las migraciones pendientes antes de devolver el pool.
func OpenStorage(ctx context.Context, cfg *config.Config, autoMigrate bool) (*Storage, error) {
	if cfg.App.Storage == "memory" {
		return NewMemoryStorage(), nil
	}
	if autoMigrate {
		db, err := migrate.Open(cfg.DB.ConnectionString())
		if err != nil {
			return nil, err
		}
		err = migrate.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &Storage{
		Products:  postgres.NewProductRepository(pool),
		Depots:    postgres.NewDepotRepository(pool),
		Contacts:  postgres.NewContactRepository(pool),
		Users:     postgres.NewUserRepository(pool),
		Movements: postgres.NewMovementRepository(pool),
		Tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

// App casos de uso listos para usar.
type App struct {
	Service       *inventory.Service
	Products      *usecase.ProductUseCase
	Depots        *usecase.DepotUseCase
	Contacts      *usecase.ContactUseCase
	Users         *usecase.UserUseCase
	Auth          *auth.AuthUseCase
	Reports       *analytics.ReportUseCase
	Importer      *importer.ImportUseCase
	Replenishment *inventory.ReplenishmentUseCase

	Metrics  *metrics.LedgerMetrics
	Registry *prometheus.Registry
	Location *time.Location
}

// Options piezas opcionales de Build.
type Options struct {
	Redis    *redis.Client // nil = caché e import lock en memoria
	Registry *prometheus.Registry
	Clock    func() time.Time
}

// Build construye la fachada de inventario y los casos de uso sobre st.
func Build(cfg *config.Config, st *Storage, opts Options) (*App, error) {
	classes, err := dinv.NewClasses(
		append(append([]string{}, dinv.DefaultInLabels...), cfg.Stock.LabelsIn...),
		append(append([]string{}, dinv.DefaultOutLabels...), cfg.Stock.LabelsOut...),
	)
	if err != nil {
		return nil, fmt.Errorf("STOCK_LABELS_IN/OUT: %w", err)
	}
	policy := dinv.Policy{FloorAtZero: cfg.Stock.FloorAtZero, ThresholdInclusive: cfg.Stock.ThresholdInclusive}

	var (
		stockCache inventory.StockCache
		lock       importer.Lock
	)
	if opts.Redis != nil {
		stockCache = cache.NewRedisStockCache(opts.Redis, cfg.Redis.CacheTTL)
		lock = cache.NewRedisImportLock(opts.Redis)
	} else {
		stockCache = cache.NewMemoryStockCache()
		lock = cache.NewMemoryImportLock()
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = opts.Registry
		if registry == nil {
			registry = prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}
	}
	var ledgerMetrics *metrics.LedgerMetrics
	if registry != nil {
		ledgerMetrics = metrics.NewLedgerMetrics(registry)
	} else {
		ledgerMetrics = metrics.NewLedgerMetrics(nil)
	}

	svc := inventory.NewService(inventory.Deps{
		Products:  st.Products,
		Depots:    st.Depots,
		Movements: st.Movements,
		Tx:        st.Tx,
		Cache:     stockCache,
		Metrics:   ledgerMetrics,
		Classes:   classes,
		Policy:    &policy,
		Clock:     opts.Clock,
	})

	loc := cfg.App.Location()
	contacts := usecase.NewContactUseCase(st.Contacts)
	products := usecase.NewProductUseCase(st.Products, st.Movements, st.Contacts, svc, usecase.ProductDefaults{
		Threshold: cfg.Stock.DefaultThreshold,
		Unit:      cfg.Stock.DefaultUnit,
	})
	sheets := excel.New()

	return &App{
		Service:       svc,
		Products:      products,
		Depots:        usecase.NewDepotUseCase(st.Depots, st.Movements),
		Contacts:      contacts,
		Users:         usecase.NewUserUseCase(st.Users),
		Auth:          auth.NewAuthUseCase(st.Users, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}),
		Reports:       analytics.NewReportUseCase(svc, st.Products, st.Depots, sheets, pdf.NewMarotoReportGenerator(), loc),
		Importer:      importer.NewImportUseCase(sheets, lock, svc, products, contacts, st.Products, st.Depots),
		Replenishment: inventory.NewReplenishmentUseCase(svc),
		Metrics:       ledgerMetrics,
		Registry:      registry,
		Location:      loc,
	}, nil
}

// RouterDeps dependencias del router HTTP.
func (a *App) RouterDeps(cfg *config.Config, log *logger.Logger) httpapi.RouterDeps {
	deps := httpapi.RouterDeps{
		AuthUC:        a.Auth,
		UserUC:        a.Users,
		ProductUC:     a.Products,
		DepotUC:       a.Depots,
		ContactUC:     a.Contacts,
		Inventory:     a.Service,
		Replenishment: a.Replenishment,
		Reports:       a.Reports,
		Importer:      a.Importer,
		JWTSecret:     cfg.JWT.Secret,
		Location:      a.Location,
		Logger:        log,
		Observer:      a.Metrics,
	}
	if a.Registry != nil {
		deps.MetricsHandler = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	}
	return deps
}

// OpenRedis abre el cliente si REDIS_ENABLED; nil en caso contrario.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	return cache.NewRedisClient(ctx, cache.RedisConfig{
		URL:          cfg.Redis.URL,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
