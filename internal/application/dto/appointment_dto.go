package dto

import "time"

// CheckConflictRequest body de POST /api/appointments/check-conflict.
type CheckConflictRequest struct {
	Fecha     DateTime `json:"fecha" swaggertype:"string" example:"2025-03-10T10:00"`
	Duracion  int      `json:"duracion"`
	ExcludeID string   `json:"excludeId,omitempty"`
}

// CheckConflictResponse resultado de la verificación.
type CheckConflictResponse struct {
	HasConflict bool                  `json:"hasConflict"`
	Conflicts   []AppointmentResponse `json:"conflicts"`
}

// CreateAppointmentRequest entrada para agendar una cita.
type CreateAppointmentRequest struct {
	ClienteID   string   `json:"clienteId"`
	Titulo      string   `json:"titulo"`
	Descripcion string   `json:"descripcion"`
	Fecha       DateTime `json:"fecha" swaggertype:"string" example:"2025-03-10T10:00"`
	Duracion    int      `json:"duracion"`
	Color       string   `json:"color"`
}

// UpdateAppointmentRequest entrada para reprogramar/editar (campos nil no se tocan).
type UpdateAppointmentRequest struct {
	ClienteID   *string   `json:"clienteId"`
	Titulo      *string   `json:"titulo"`
	Descripcion *string   `json:"descripcion"`
	Fecha       *DateTime `json:"fecha" swaggertype:"string"`
	Duracion    *int      `json:"duracion"`
	Color       *string   `json:"color"`
	Estado      *string   `json:"estado"`
}

// AppointmentResponse salida de una cita.
type AppointmentResponse struct {
	ID            string    `json:"id"`
	ClienteID     string    `json:"clienteId"`
	ClienteNombre string    `json:"clienteNombre,omitempty"`
	Titulo        string    `json:"titulo"`
	Descripcion   string    `json:"descripcion"`
	Fecha         time.Time `json:"fecha"`
	Fin           time.Time `json:"fin"`
	Duracion      int       `json:"duracion"`
	Color         string    `json:"color"`
	Estado        string    `json:"estado"`
	CreadoPor     string    `json:"creadoPor"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ScheduleConflictResponse cuerpo 409 cuando la reserva choca con otras citas.
type ScheduleConflictResponse struct {
	Code      string                `json:"code"`
	Message   string                `json:"message"`
	Conflicts []AppointmentResponse `json:"conflicts"`
}

// ListAppointmentsQuery filtros opcionales del listado (fecha o RFC3339).
type ListAppointmentsQuery struct {
	Desde string `query:"desde"`
	Hasta string `query:"hasta"`
}
