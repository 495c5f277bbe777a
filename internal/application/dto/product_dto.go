package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El código lo genera el sistema.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Category    string          `json:"category" validate:"max=100"`
	Unit        string          `json:"unit" validate:"max=20"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Threshold   *int64          `json:"threshold" validate:"omitempty,min=0"`
	SupplierID  string          `json:"supplier_id" validate:"omitempty,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto (el código no se modifica).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Threshold   *int64           `json:"threshold" validate:"omitempty,min=0"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Threshold   int64           `json:"threshold"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Archived    bool            `json:"archived"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductDetailResponse producto con su stock derivado.
type ProductDetailResponse struct {
	ProductResponse
	Stock StockViewResponse `json:"stock"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RemoveProductResponse resultado de DELETE /api/products/:id.
// Si el producto tiene movimientos se archiva en lugar de borrarse.
type RemoveProductResponse struct {
	ID       string `json:"id"`
	Archived bool   `json:"archived"`
	Deleted  bool   `json:"deleted"`
}
