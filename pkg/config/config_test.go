package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.False(t, cfg.Stock.FloorAtZero)
	assert.True(t, cfg.Stock.ThresholdInclusive)
	assert.Equal(t, int64(3), cfg.Stock.DefaultThreshold)
	assert.Equal(t, "pcs", cfg.Stock.DefaultUnit)
	assert.Empty(t, cfg.Stock.LabelsIn)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, time.UTC, cfg.App.Location())
	assert.False(t, cfg.App.AutoMigrate)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_STORAGE", "Memory")
	v.Set("STOCK_FLOOR_AT_ZERO", "true")
	v.Set("STOCK_THRESHOLD_INCLUSIVE", "false")
	v.Set("STOCK_LABELS_IN", "Donación, ,Regalo ")
	v.Set("STOCK_DEFAULT_THRESHOLD", "5")
	v.Set("STOCK_CACHE_TTL_SECONDS", "30")
	v.Set("REDIS_ENABLED", "1")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.Storage)
	assert.True(t, cfg.Stock.FloorAtZero)
	assert.False(t, cfg.Stock.ThresholdInclusive)
	assert.Equal(t, []string{"Donación", "Regalo"}, cfg.Stock.LabelsIn)
	assert.Equal(t, int64(5), cfg.Stock.DefaultThreshold)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.Redis.Enabled)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("APP_STORAGE", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("STOCK_DEFAULT_THRESHOLD", "-1")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
