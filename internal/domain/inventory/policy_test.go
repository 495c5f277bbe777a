package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestClassify_UmbralInclusivo(t *testing.T) {
	for _, threshold := range []int64{1, 3, 10, 250} {
		assert.Equal(t, inventory.StatusBelowThreshold, inventory.Classify(threshold, threshold),
			"stock igual al umbral %d debe alertar", threshold)
		assert.Equal(t, inventory.StatusNormal, inventory.Classify(threshold+1, threshold))
	}
}

func TestClassify_CeroSiempreAgotado(t *testing.T) {
	for _, threshold := range []int64{0, 1, 3, 100} {
		assert.Equal(t, inventory.StatusOutOfStock, inventory.Classify(0, threshold), "umbral %d", threshold)
	}
}

func TestClassify_NegativoEsAgotado(t *testing.T) {
	assert.Equal(t, inventory.StatusOutOfStock, inventory.Classify(-1, 10))
	assert.Equal(t, inventory.StatusOutOfStock, inventory.Classify(-40, 0))
}

func TestClassify_Escenario(t *testing.T) {
	assert.Equal(t, inventory.StatusNormal, inventory.Classify(50, 10))
	assert.Equal(t, inventory.StatusBelowThreshold, inventory.Classify(5, 10))
	assert.Equal(t, inventory.StatusOutOfStock, inventory.Classify(0, 10))
}

func TestPolicy_UmbralEstricto(t *testing.T) {
	p := inventory.Policy{ThresholdInclusive: false}
	assert.Equal(t, inventory.StatusNormal, p.Classify(10, 10))
	assert.Equal(t, inventory.StatusBelowThreshold, p.Classify(9, 10))
	assert.Equal(t, inventory.StatusOutOfStock, p.Classify(0, 0))
}

func TestPolicy_Present(t *testing.T) {
	floored := inventory.Policy{FloorAtZero: true}
	assert.Equal(t, int64(0), floored.Present(-3))
	assert.Equal(t, int64(4), floored.Present(4))

	raw := inventory.DefaultPolicy()
	assert.Equal(t, int64(-3), raw.Present(-3))
}
