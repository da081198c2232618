package scheduling

import (
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// CanTransition valida el cambio de estado de una cita.
// Desde scheduled se puede completar o cancelar; una cita cancelada puede reprogramarse
// (vuelve a scheduled y debe pasar el chequeo de conflictos). Completada es final.
func CanTransition(from, to entity.AppointmentStatus) error {
	if from == to {
		return nil
	}
	switch from {
	case entity.StatusScheduled:
		if to == entity.StatusCompleted || to == entity.StatusCancelled {
			return nil
		}
	case entity.StatusCancelled:
		if to == entity.StatusScheduled {
			return nil
		}
	}
	return domain.Invalid("estado", "transición no permitida de "+string(from)+" a "+string(to))
}

// NeedsConflictCheck indica si pasar de from a to (o mover la cita) exige verificar conflictos.
func NeedsConflictCheck(to entity.AppointmentStatus, moved bool, from entity.AppointmentStatus) bool {
	if to == entity.StatusCancelled {
		return false
	}
	return moved || from == entity.StatusCancelled
}
