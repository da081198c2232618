package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de inventario.
type MovementKind string

const (
	MovementEntry MovementKind = "entry" // entrada
	MovementExit  MovementKind = "exit"  // salida
)

// ParseMovementKind acepta el valor canónico o su alias en español.
func ParseMovementKind(s string) (MovementKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entry", "entrada":
		return MovementEntry, true
	case "exit", "salida":
		return MovementExit, true
	}
	return "", false
}

// Movement movimiento de inventario (append-only). Quantity siempre positiva; el signo lo da Kind.
type Movement struct {
	ID                   string
	ProductID            string
	Kind                 MovementKind
	Quantity             decimal.Decimal
	BatchID              string
	AppointmentID        string
	AppliedToAppointment bool
	Reason               string
	PerformedBy          string
	CreatedAt            time.Time
}

// MovementWithDetails movimiento con nombre de producto y usuario (listados).
type MovementWithDetails struct {
	Movement
	ProductName string
	Username    string
}
