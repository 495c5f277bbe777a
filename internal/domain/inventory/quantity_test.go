package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestParseQuantity_Rechaza(t *testing.T) {
	for _, raw := range []string{"0", "-1", "1.5", "0.0", "", "abc", "-0.5", "1e-3"} {
		_, err := inventory.ParseQuantity(raw)
		assert.ErrorIs(t, err, domain.ErrValidation, "entrada %q", raw)
	}
}

func TestParseQuantity_Acepta(t *testing.T) {
	cases := map[string]int64{"1": 1, " 45 ": 45, "5.0": 5, "1e2": 100}
	for raw, want := range cases {
		got, err := inventory.ParseQuantity(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, inventory.ValidateQuantity(1))
	assert.ErrorIs(t, inventory.ValidateQuantity(0), domain.ErrValidation)
	assert.ErrorIs(t, inventory.ValidateQuantity(-1), domain.ErrValidation)
}
