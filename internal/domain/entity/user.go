package entity

import "time"

// User usuario del sistema. La autorización se reduce a IsAdmin.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
