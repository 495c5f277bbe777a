// Package report contiene las agregaciones puras que alimentan el dashboard:
// valor del inventario, top-N, series diarias y distribuciones.
package report

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Unspecified agrupa los valores vacíos o desconocidos de una dimensión.
const Unspecified = "unspecified"

// StockLine producto con su stock derivado, lista para agregaciones.
type StockLine struct {
	ProductID string
	Code      string
	Name      string
	Category  string
	Unit      string
	Price     decimal.Decimal
	Threshold int64
	Raw       int64 // fold del ledger
	Stock     int64 // valor presentado según la política
	Status    inventory.Status
	Archived  bool
}

// Value stock presentado por precio unitario.
func (l StockLine) Value() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Stock))
}

// TotalValue Σ stock · precio.
func TotalValue(lines []StockLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Value())
	}
	return total
}

// TotalStock Σ stock presentado.
func TotalStock(lines []StockLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Stock
	}
	return total
}

// CountByStatus cuántos productos hay en cada clasificación.
func CountByStatus(lines []StockLine) map[inventory.Status]int {
	out := map[inventory.Status]int{
		inventory.StatusOutOfStock:     0,
		inventory.StatusBelowThreshold: 0,
		inventory.StatusNormal:         0,
	}
	for _, l := range lines {
		out[l.Status]++
	}
	return out
}

// ── Top N ─────────────────────────────────────────────────────────────────────

// Metric criterio de ordenamiento del top-N.
type Metric string

const (
	MetricStock Metric = "stock"
	MetricValue Metric = "value"
)

// ParseMetric valida el criterio; vacío equivale a stock.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricStock:
		return MetricStock, nil
	case MetricValue:
		return MetricValue, nil
	}
	return "", fmt.Errorf("%w: métrica %q (stock|value)", domain.ErrValidation, s)
}

// TopN devuelve los n productos con mayor métrica, desempatando por nombre ascendente.
// No modifica el slice recibido.
func TopN(lines []StockLine, n int, by Metric) []StockLine {
	if n <= 0 {
		return []StockLine{}
	}
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b StockLine) int {
		var c int
		if by == MetricValue {
			c = b.Value().Cmp(a.Value())
		} else {
			c = cmp.Compare(b.Stock, a.Stock)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// ── Serie diaria ──────────────────────────────────────────────────────────────

// DayBucket movimientos de un día calendario.
type DayBucket struct {
	Date        time.Time // medianoche en la zona horaria pedida
	In          int
	Out         int
	InQuantity  int64
	OutQuantity int64
}

// DayStart medianoche del día de t en loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MaxSeriesDays días máximos de una serie diaria.
const MaxSeriesDays = 366

// MovementsPerDay agrupa por día calendario y dirección. Devuelve un bucket por cada día
// entre from y to (ambos incluidos), aunque no tenga movimientos. La dirección sale de la
// tabla de etiquetas, igual que en el fold del stock. Rangos de más de MaxSeriesDays días
// son un error de validación.
func MovementsPerDay(classes *inventory.Classes, movements iter.Seq2[entity.StockMovement, error], from, to time.Time, loc *time.Location) ([]DayBucket, error) {
	if loc == nil {
		loc = time.UTC
	}
	if classes == nil {
		classes = inventory.DefaultClasses()
	}
	first, last := DayStart(from, loc), DayStart(to, loc)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrValidation)
	}
	if last.After(first.AddDate(0, 0, MaxSeriesDays-1)) {
		return nil, fmt.Errorf("%w: el rango supera %d días", domain.ErrValidation, MaxSeriesDays)
	}
	var buckets []DayBucket
	index := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		index[d.Format(time.DateOnly)] = len(buckets)
		buckets = append(buckets, DayBucket{Date: d})
	}
	for m, err := range movements {
		if err != nil {
			return nil, err
		}
		i, ok := index[m.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		if classes.Sign(m) < 0 {
			buckets[i].Out++
			buckets[i].OutQuantity += m.Quantity
		} else {
			buckets[i].In++
			buckets[i].InQuantity += m.Quantity
		}
	}
	return buckets, nil
}

// ── Distribuciones ────────────────────────────────────────────────────────────

// Dimension eje de agrupación de una distribución.
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionDepot    Dimension = "depot"
	DimensionLabel    Dimension = "label"
)

// Measure qué se suma en cada grupo.
type Measure string

const (
	MeasureStock Measure = "stock" // suma con signo de cantidades
	MeasureCount Measure = "count" // número de movimientos
)

// ParseDimension valida la dimensión.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case DimensionCategory, DimensionDepot, DimensionLabel:
		return d, nil
	}
	return "", fmt.Errorf("%w: dimensión %q (category|depot|label)", domain.ErrValidation, s)
}

// ParseMeasure valida la medida; vacío equivale a stock.
func ParseMeasure(s string) (Measure, error) {
	switch m := Measure(s); m {
	case "":
		return MeasureStock, nil
	case MeasureStock, MeasureCount:
		return m, nil
	}
	return "", fmt.Errorf("%w: medida %q (stock|count)", domain.ErrValidation, s)
}

// Bucket valor agregado de un grupo.
type Bucket struct {
	Key   string
	Value int64
}

// DistributionBy agrupa el ledger por la dimensión pedida. Para category, los productos sin
// movimientos también aparecen (con 0). Los valores vacíos van a Unspecified.
// El resultado se ordena por clave, con Unspecified al final.
func DistributionBy(
	dim Dimension,
	measure Measure,
	classes *inventory.Classes,
	products map[string]*entity.Product,
	movements iter.Seq2[entity.StockMovement, error],
) ([]Bucket, error) {
	totals := make(map[string]int64)
	if dim == DimensionCategory {
		for _, p := range products {
			if _, ok := totals[bucketKey(p.Category)]; !ok {
				totals[bucketKey(p.Category)] = 0
			}
		}
	}
	for m, err := range movements {
		if err != nil {
			return nil, err
		}
		var key string
		switch dim {
		case DimensionCategory:
			if p, ok := products[m.ProductID]; ok {
				key = p.Category
			}
		case DimensionDepot:
			key = m.DepotID
		case DimensionLabel:
			key = classes.Canonical(m.Label)
		default:
			return nil, fmt.Errorf("%w: dimensión %q", domain.ErrValidation, dim)
		}
		if measure == MeasureCount {
			totals[bucketKey(key)]++
		} else {
			totals[bucketKey(key)] += classes.Sign(m) * m.Quantity
		}
	}

	out := make([]Bucket, 0, len(totals))
	for k, v := range totals {
		out = append(out, Bucket{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if (a.Key == Unspecified) != (b.Key == Unspecified) {
			if a.Key == Unspecified {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}

func bucketKey(v string) string {
	if v == "" {
		return Unspecified
	}
	return v
}

// RotationRate salidas totales sobre stock promedio, en porcentaje (2 decimales).
// Devuelve 0 si el stock promedio no es positivo.
func RotationRate(totalOut int64, totalStock int64, productCount int) decimal.Decimal {
	if productCount <= 0 || totalStock <= 0 {
		return decimal.Zero
	}
	avg := decimal.NewFromInt(totalStock).Div(decimal.NewFromInt(int64(productCount)))
	return decimal.NewFromInt(totalOut).Div(avg).Mul(decimal.NewFromInt(100)).Round(2)
}
