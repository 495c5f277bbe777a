package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCodePrefix prefijo de los códigos generados por el sistema (PRD-0001, PRD-0002, ...).
const ProductCodePrefix = "PRD"

// Product representa un artículo del catálogo. El stock no se guarda aquí: se deriva del ledger.
type Product struct {
	ID          string
	Code        string // generado por el sistema, inmutable
	Name        string
	Category    string
	Unit        string
	Price       decimal.Decimal
	Description string
	Threshold   int64  // punto de reorden
	SupplierID  string // vacío si no tiene proveedor
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormatProductCode construye el código a partir del número de secuencia.
func FormatProductCode(n int64) string {
	return fmt.Sprintf("%s-%04d", ProductCodePrefix, n)
}
