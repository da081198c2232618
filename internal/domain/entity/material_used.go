package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsed registro desnormalizado de una salida aplicada a una cita.
// Solo se crea como efecto de un Movement de salida con AppliedToAppointment.
type MaterialUsed struct {
	ID            string
	ProductID     string
	Quantity      decimal.Decimal
	BatchID       string
	AppointmentID string
	MovementID    string
	UsedAt        time.Time
	Notes         string
}

// MaterialUsedDetail material usado con datos de producto para mostrar en el historial.
type MaterialUsedDetail struct {
	MaterialUsed
	ProductName string
	Unit        string
}
