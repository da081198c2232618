package scheduling

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción serializada para la agenda
// (lock consultivo de PostgreSQL), de modo que verificar conflictos e insertar
// sea atómico frente a reservas concurrentes.
type TxRunner interface {
	RunScheduling(ctx context.Context, fn func(
		apptRepo repository.AppointmentRepository,
		materialRepo repository.MaterialUsedRepository,
	) error) error
}
