// Package metrics registra los contadores Prometheus del ledger y de la API HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.Metrics = (*LedgerMetrics)(nil)

// LedgerMetrics contadores del ledger y latencia de la API.
type LedgerMetrics struct {
	recorded *prometheus.CounterVec
	rejected *prometheus.CounterVec
	cache    *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

// NewLedgerMetrics registra las métricas en reg. Con reg nil devuelve un colector inerte.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	recorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_movements_recorded_total",
		Help: "Movements appended to the ledger.",
	}, []string{"direction"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_movements_rejected_total",
		Help: "Movements rejected before reaching the ledger.",
	}, []string{"reason"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_stock_cache_lookups_total",
		Help: "Derived stock cache lookups.",
	}, []string{"result"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(recorded, rejected, cache, requests)
	return &LedgerMetrics{recorded: recorded, rejected: rejected, cache: cache, requests: requests}
}

// MovementRecorded incrementa el contador de movimientos por dirección.
func (m *LedgerMetrics) MovementRecorded(direction string) {
	if m == nil || m.recorded == nil {
		return
	}
	m.recorded.WithLabelValues(normalizeLabel(direction)).Inc()
}

// MovementRejected incrementa el contador de rechazos por motivo.
func (m *LedgerMetrics) MovementRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// CacheLookup cuenta aciertos y fallos de la caché de stock.
func (m *LedgerMetrics) CacheLookup(hit bool) {
	if m == nil || m.cache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// ObserveRequest registra la duración de una petición HTTP.
func (m *LedgerMetrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
