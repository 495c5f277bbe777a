package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Storage: "memory", Timezone: "UTC"},
		JWT:   config.JWTConfig{Secret: "s", Expiration: 5, Issuer: "test"},
		Stock: config.StockConfig{ThresholdInclusive: true, DefaultThreshold: 3, DefaultUnit: "pcs"},
	}
}

func TestOpenStorage_Memory(t *testing.T) {
	st, err := OpenStorage(context.Background(), memoryConfig(), true)
	require.NoError(t, err)
	defer st.Close()
	assert.NotNil(t, st.Movements)
	assert.NotNil(t, st.Tx)
}

func TestOpenRedis_Deshabilitado(t *testing.T) {
	rdb, err := OpenRedis(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestBuild_EtiquetasConfiguradas(t *testing.T) {
	cfg := memoryConfig()
	cfg.Stock.LabelsIn = []string{"Donación"}
	a, err := Build(cfg, NewMemoryStorage(), Options{})
	require.NoError(t, err)

	ctx := context.Background()
	p, err := a.Products.Create(ctx, dto.CreateProductRequest{Name: "Tornillo"})
	require.NoError(t, err)

	m, err := a.Service.RecordMovement(ctx, inventory.RecordInput{ProductID: p.ID, Label: "donación", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "IN", string(m.Direction))
	assert.Equal(t, "Donación", m.Label)

	view, err := a.Service.StockView(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Stock)
}

func TestBuild_EtiquetaEnAmbasClases(t *testing.T) {
	cfg := memoryConfig()
	cfg.Stock.LabelsOut = []string{"Incoming"}
	_, err := Build(cfg, NewMemoryStorage(), Options{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRouterDeps_Metricas(t *testing.T) {
	cfg := memoryConfig()
	a, err := Build(cfg, NewMemoryStorage(), Options{})
	require.NoError(t, err)
	assert.Nil(t, a.RouterDeps(cfg, logger.Nop()).MetricsHandler)

	cfg.Metrics.Enabled = true
	a, err = Build(cfg, NewMemoryStorage(), Options{})
	require.NoError(t, err)
	deps := a.RouterDeps(cfg, logger.Nop())
	assert.NotNil(t, deps.MetricsHandler)
	assert.NotNil(t, deps.Observer)
}
