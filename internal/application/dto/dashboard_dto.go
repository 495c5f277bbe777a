package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardDTO respuesta de GET /api/reports/dashboard.
type DashboardDTO struct {
	TotalProducts  int             `json:"total_products"`
	TotalStock     int64           `json:"total_stock"`
	BelowThreshold int             `json:"below_threshold"`
	OutOfStock     int             `json:"out_of_stock"`
	TotalMovements int             `json:"total_movements"`
	InMovements    int             `json:"in_movements"`
	OutMovements   int             `json:"out_movements"`
	StockValue     decimal.Decimal `json:"stock_value"`
	RotationRate   decimal.Decimal `json:"rotation_rate"` // salidas / stock promedio * 100

	TopProducts []StockLineResponse `json:"top_products"`
	Last7Days   []DayBucketDTO      `json:"last_7_days"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// DayBucketDTO movimientos de un día.
type DayBucketDTO struct {
	Date        string `json:"date"` // YYYY-MM-DD
	In          int    `json:"in"`
	Out         int    `json:"out"`
	InQuantity  int64  `json:"in_quantity"`
	OutQuantity int64  `json:"out_quantity"`
}

// DistributionBucketDTO valor agregado de un grupo.
type DistributionBucketDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"` // nombre legible (ej. nombre del depósito)
	Value int64  `json:"value"`
}

// TotalValueDTO respuesta de GET /api/reports/total-value.
type TotalValueDTO struct {
	TotalValue decimal.Decimal `json:"total_value"`
	TotalStock int64           `json:"total_stock"`
	Products   int             `json:"products"`
}

// StockReportDTO datos del informe PDF de stock.
type StockReportDTO struct {
	Title       string
	GeneratedAt time.Time
	Lines       []StockLineResponse
	TotalStock  int64
	TotalValue  decimal.Decimal
}

// VerificationReportDTO datos del informe PDF de verificación de inventario.
type VerificationReportDTO struct {
	Title       string
	GeneratedAt time.Time
	Applied     bool
	Lines       []VerificationLineResponse
}
