package entity

import "time"

// ContactKind distingue proveedores de clientes en el directorio de contactos.
type ContactKind string

const (
	ContactSupplier ContactKind = "supplier"
	ContactClient   ContactKind = "client"
)

// IsValid indica si el tipo de contacto es conocido.
func (k ContactKind) IsValid() bool {
	return k == ContactSupplier || k == ContactClient
}

// Contact proveedor o cliente. Nombre e identificación fiscal son únicos por tipo.
type Contact struct {
	ID          string
	Kind        ContactKind
	Name        string
	FiscalID    string
	ContactName string
	Email       string
	Phone       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
