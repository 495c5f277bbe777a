package http

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: cantidad", domain.ErrValidation), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("get: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{errors.New("conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestWriteError_OcultaErroresInternos(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		err := writeError(c, errors.New("pq: password authentication failed"))
		assert.Equal(t, "pq: password authentication failed", c.Locals(localInternalErr).(error).Error())
		return err
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestRecordedWithWarning(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.False(t, recordedWithWarning(c, nil))
		assert.False(t, recordedWithWarning(c, domain.ErrValidation))
		assert.True(t, recordedWithWarning(c, fmt.Errorf("%w: redis caído", domain.ErrCacheInvalidation)))
		assert.NotNil(t, c.Locals(localWarning))
		return c.SendStatus(fiber.StatusCreated)
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}
