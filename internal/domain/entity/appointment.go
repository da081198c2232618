package entity

import (
	"strings"
	"time"
)

// AppointmentStatus estado de una cita.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus acepta el valor canónico o su alias en español.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled", "programada":
		return StatusScheduled, true
	case "completed", "completada":
		return StatusCompleted, true
	case "cancelled", "cancelada":
		return StatusCancelled, true
	}
	return "", false
}

// Appointment representa una cita agendada para un cliente.
type Appointment struct {
	ID              string
	ClientID        string
	Title           string
	Description     string
	StartAt         time.Time
	DurationMinutes int
	Color           string
	Status          AppointmentStatus
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EndAt fin (exclusivo) de la cita.
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Active indica si la cita participa en la detección de conflictos.
func (a *Appointment) Active() bool {
	return a.Status != StatusCancelled
}

// AppointmentWithClient cita con el nombre del cliente (listados).
type AppointmentWithClient struct {
	Appointment
	ClientFirstName string
	ClientLastName  string
}
