package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsedResponse material consumido en una cita.
type MaterialUsedResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"productoId"`
	ProductoNombre string          `json:"productoNombre"`
	UnidadMedida   string          `json:"unidadMedida"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	LoteID         string          `json:"loteId,omitempty"`
	MovimientoID   string          `json:"movimientoId"`
	Fecha          time.Time       `json:"fecha"`
	Notas          string          `json:"notas,omitempty"`
}

// AppointmentHistoryItem cita con sus materiales.
type AppointmentHistoryItem struct {
	AppointmentResponse
	Materiales []MaterialUsedResponse `json:"materiales"`
}

// ClientHistoryResponse historial de citas de un cliente, más reciente primero.
type ClientHistoryResponse struct {
	Cliente ClientResponse           `json:"cliente"`
	Citas   []AppointmentHistoryItem `json:"citas"`
}
