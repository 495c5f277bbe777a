package dto

import "time"

// CreateDepotRequest entrada para crear un depósito.
type CreateDepotRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
}

// UpdateDepotRequest entrada para renombrar o actualizar un depósito.
type UpdateDepotRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
}

// DepotResponse salida de un depósito.
type DepotResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
