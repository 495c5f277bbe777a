package entity

import (
	"fmt"
	"strings"
	"time"
)

// Direction sentido de un movimiento en el ledger.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid indica si la dirección es una de las dos permitidas.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ParseDirection acepta "in"/"IN"/"out"/"OUT" con espacios alrededor.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("dirección inválida %q", s)
	}
	return d, nil
}

// StockMovement entrada inmutable del ledger. Nunca se actualiza ni se borra;
// las correcciones se registran como movimientos compensatorios.
type StockMovement struct {
	ID           string
	ProductID    string
	Direction    Direction
	Label        string
	Quantity     int64 // siempre > 0; el signo lo da la dirección
	DepotID      string
	Counterparty string
	Comment      string
	TransferID   string // agrupa las dos patas de un traslado entre depósitos
	CreatedBy    string
	Timestamp    time.Time
}
