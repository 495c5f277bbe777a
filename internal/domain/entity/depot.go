package entity

import "time"

// Depot ubicación física de almacenamiento. El stock por depósito se obtiene filtrando el ledger.
type Depot struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
