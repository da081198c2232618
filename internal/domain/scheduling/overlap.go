// Package scheduling contiene la lógica pura de detección de conflictos de agenda.
package scheduling

import (
	"fmt"
	"time"

	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// Interval intervalo semiabierto [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// MaxDurationMinutes duración máxima de una cita (un día).
const MaxDurationMinutes = 24 * 60

// NewInterval construye [start, start+duration). duration debe estar en (0, MaxDurationMinutes].
func NewInterval(start time.Time, durationMinutes int) (Interval, error) {
	if durationMinutes <= 0 {
		return Interval{}, domain.Invalid("duracion", "debe ser mayor que cero")
	}
	if durationMinutes > MaxDurationMinutes {
		return Interval{}, domain.Invalid("duracion", fmt.Sprintf("no puede superar %d minutos", MaxDurationMinutes))
	}
	if start.IsZero() {
		return Interval{}, domain.Invalid("fecha", "requerida")
	}
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}, nil
}

// Overlaps aplica la prueba de solapamiento semiabierta: compartir solo un extremo no es conflicto.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// FindConflicts devuelve las citas activas (no canceladas, id != excludeID) que se solapan con candidate.
// Conserva el orden de entrada.
func FindConflicts(candidate Interval, existing []entity.Appointment, excludeID string) []entity.Appointment {
	conflicts := make([]entity.Appointment, 0)
	for _, a := range existing {
		if !a.Active() || (excludeID != "" && a.ID == excludeID) {
			continue
		}
		if a.DurationMinutes <= 0 {
			continue
		}
		other := Interval{Start: a.StartAt, End: a.EndAt()}
		if candidate.Overlaps(other) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts
}

// ConflictError la reserva se solapa con citas existentes. La escritura se aborta.
type ConflictError struct {
	Conflicts []entity.Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicto de horario con %d cita(s)", len(e.Conflicts))
}

// Unwrap permite errors.Is(err, domain.ErrConflict).
func (e *ConflictError) Unwrap() error { return domain.ErrConflict }
