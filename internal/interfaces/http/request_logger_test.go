package http

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type observation struct {
	method, route string
	status        int
}

type fakeObserver struct{ seen []observation }

func (o *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{method, route, status})
}

func newLoggedApp(buf *bytes.Buffer, obs RequestObserver) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(RequestLogger(logger.New(logger.Config{Env: "production", Level: "info", Output: buf}), obs))
	app.Get("/ok/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return writeError(c, errors.New("disco lleno")) })
	app.Get("/warn", func(c *fiber.Ctx) error {
		recordedWithWarning(c, domain.ErrCacheInvalidation)
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestRequestLogger_ObservaRutaYStatus(t *testing.T) {
	var buf bytes.Buffer
	obs := &fakeObserver{}
	app := newLoggedApp(&buf, obs)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok/42", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, obs.seen, 1)
	assert.Equal(t, observation{fiber.MethodGet, "/ok/:id", fiber.StatusOK}, obs.seen[0])
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"path":"/ok/42"`)
}

func TestRequestLogger_ErrorInternoConCausa(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "disco lleno")
}

func TestRequestLogger_AvisoDeCache(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/warn", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestRequestLogger_RutaInexistente(t *testing.T) {
	var buf bytes.Buffer
	obs := &fakeObserver{}
	app := newLoggedApp(&buf, obs)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/nada", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Len(t, obs.seen, 1)
	assert.Equal(t, fiber.StatusNotFound, obs.seen[0].status)
}
