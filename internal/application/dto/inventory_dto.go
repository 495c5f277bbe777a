package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/movements.
// Quantity se recibe como json.Number para rechazar explícitamente cantidades no enteras.
type RecordMovementRequest struct {
	ProductID    string      `json:"product_id" validate:"required"`
	Direction    string      `json:"direction" validate:"omitempty,oneof=IN OUT in out"`
	Label        string      `json:"label" validate:"max=60"`
	Quantity     json.Number `json:"quantity" validate:"required"`
	DepotID      string      `json:"depot_id"`
	Counterparty string      `json:"counterparty" validate:"max=200"`
	Comment      string      `json:"comment"`
}

// TransferRequest body para POST /api/movements/transfer.
type TransferRequest struct {
	ProductID   string      `json:"product_id" validate:"required"`
	FromDepotID string      `json:"from_depot_id" validate:"required"`
	ToDepotID   string      `json:"to_depot_id" validate:"required,nefield=FromDepotID"`
	Quantity    json.Number `json:"quantity" validate:"required"`
	Comment     string      `json:"comment"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Direction    string    `json:"direction"`
	Label        string    `json:"label"`
	Quantity     int64     `json:"quantity"`
	DepotID      string    `json:"depot_id,omitempty"`
	Counterparty string    `json:"counterparty,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	TransferID   string    `json:"transfer_id,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// MovementListResponse lista de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}

// StockViewResponse stock derivado de un producto (opcionalmente por depósito).
type StockViewResponse struct {
	ProductID string `json:"product_id"`
	DepotID   string `json:"depot_id,omitempty"`
	Raw       int64  `json:"raw"`   // fold del ledger, puede ser negativo
	Stock     int64  `json:"stock"` // valor presentado
	Threshold int64  `json:"threshold"`
	Status    string `json:"status"`
}

// StockLineResponse fila del listado de stock.
type StockLineResponse struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Threshold int64           `json:"threshold"`
	Raw       int64           `json:"raw"`
	Stock     int64           `json:"stock"`
	Value     decimal.Decimal `json:"value"`
	Status    string          `json:"status"`
	Archived  bool            `json:"archived,omitempty"`
}

// VerificationCountRequest conteo físico de un producto.
type VerificationCountRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	DepotID   string `json:"depot_id"`
	Counted   *int64 `json:"counted" validate:"required,min=0"`
}

// VerificationRequest body para POST /api/inventory/verification.
// Si Apply es true se registran movimientos compensatorios por cada diferencia.
type VerificationRequest struct {
	Apply  bool                       `json:"apply"`
	Counts []VerificationCountRequest `json:"counts" validate:"required,min=1,dive"`
}

// VerificationLineResponse stock teórico contra conteo físico.
type VerificationLineResponse struct {
	ProductID    string `json:"product_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	DepotID      string `json:"depot_id,omitempty"`
	Theoretical  int64  `json:"theoretical"`
	Counted      int64  `json:"counted"`
	Discrepancy  int64  `json:"discrepancy"` // contado - teórico
	AdjustmentID string `json:"adjustment_id,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su umbral.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	Threshold          int64           `json:"threshold"`
	IdealStock         int64           `json:"ideal_stock"`          // ceil(Threshold * 1.5)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Status             string          `json:"status"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

// MovementExportRow fila de la hoja de movimientos (export e import comparten columnas).
type MovementExportRow struct {
	Timestamp    time.Time
	ProductCode  string
	ProductName  string
	Direction    string
	Label        string
	Quantity     int64
	Depot        string
	Counterparty string
	Comment      string
}

// MovementImportRow fila leída de una hoja de movimientos. Quantity llega como texto.
type MovementImportRow struct {
	Row          int
	Timestamp    time.Time
	ProductCode  string
	Direction    string
	Label        string
	Quantity     string
	Depot        string
	Counterparty string
	Comment      string
}

// ProductImportRow fila leída de una hoja de productos.
type ProductImportRow struct {
	Row         int
	Name        string
	Code        string
	Category    string
	Unit        string
	Price       string
	Threshold   string
	Description string
	Supplier    string
}

// ImportRowError error de una fila concreta.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResultDTO resumen de una importación.
type ImportResultDTO struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}
