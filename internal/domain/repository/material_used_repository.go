package repository

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// MaterialUsedRepository define el puerto de persistencia para materiales usados en citas.
type MaterialUsedRepository interface {
	Create(ctx context.Context, m *entity.MaterialUsed) error
	ListByAppointments(ctx context.Context, appointmentIDs []string) ([]*entity.MaterialUsedDetail, error)
	DeleteByAppointment(ctx context.Context, appointmentID string) error
}
