package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// ValidateQuantity exige una cantidad estrictamente positiva.
func ValidateQuantity(q int64) error {
	if q <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero (recibido %d)", domain.ErrValidation, q)
	}
	return nil
}

// ParseQuantity interpreta una cantidad textual (JSON, celda de Excel).
// Acepta "5" o "5.0"; rechaza "1.5", "0", "-1" y texto no numérico.
func ParseQuantity(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: cantidad requerida", domain.ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: cantidad %q no es numérica", domain.ErrValidation, raw)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: la cantidad debe ser entera (recibido %s)", domain.ErrValidation, s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: la cantidad debe ser mayor que cero (recibido %s)", domain.ErrValidation, s)
	}
	if d.GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrValidation)
	}
	return d.IntPart(), nil
}
