package dto

import "time"

// CreateContactRequest entrada para crear un proveedor o cliente.
type CreateContactRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=supplier client"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	FiscalID    string `json:"fiscal_id" validate:"max=50"`
	ContactName string `json:"contact_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=50"`
	Address     string `json:"address"`
}

// UpdateContactRequest entrada para actualizar un contacto (el tipo no cambia).
type UpdateContactRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	FiscalID    *string `json:"fiscal_id" validate:"omitempty,max=50"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	FiscalID    string    `json:"fiscal_id"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContactListResponse lista paginada de contactos.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
