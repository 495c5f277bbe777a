package inventory

// Status clasificación del stock frente al umbral del producto.
type Status string

const (
	StatusOutOfStock     Status = "OUT_OF_STOCK"
	StatusBelowThreshold Status = "BELOW_THRESHOLD"
	StatusNormal         Status = "NORMAL"
)

// Policy decisiones configurables sobre cómo se presenta y clasifica el stock.
type Policy struct {
	// FloorAtZero muestra 0 en lugar de stock negativo. Solo afecta la presentación.
	FloorAtZero bool
	// ThresholdInclusive: stock == umbral cuenta como BELOW_THRESHOLD (si es false se usa <).
	ThresholdInclusive bool
}

// DefaultPolicy stock negativo visible y umbral inclusivo.
func DefaultPolicy() Policy {
	return Policy{FloorAtZero: false, ThresholdInclusive: true}
}

// Present aplica el piso en cero si la política lo pide.
func (p Policy) Present(raw int64) int64 {
	if p.FloorAtZero && raw < 0 {
		return 0
	}
	return raw
}

// Classify clasifica un stock crudo. Un stock negativo se considera agotado.
func (p Policy) Classify(stock, threshold int64) Status {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock < threshold, p.ThresholdInclusive && stock == threshold:
		return StatusBelowThreshold
	default:
		return StatusNormal
	}
}

// Classify usa la política por defecto (umbral inclusivo).
func Classify(stock, threshold int64) Status {
	return DefaultPolicy().Classify(stock, threshold)
}
