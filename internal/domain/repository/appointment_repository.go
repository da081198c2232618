package repository

import (
	"context"
	"time"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// AppointmentRepository define el puerto de persistencia para Appointment.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	GetWithClient(ctx context.Context, id string) (*entity.AppointmentWithClient, error)
	Update(ctx context.Context, a *entity.Appointment) error
	Delete(ctx context.Context, id string) error
	// ListActiveBetween devuelve las citas no canceladas que pueden solaparse con [from, to).
	// Puede devolver de más; la decisión final la toma scheduling.FindConflicts.
	ListActiveBetween(ctx context.Context, from, to time.Time) ([]entity.Appointment, error)
	// List ordena por fecha ascendente; from/to opcionales.
	List(ctx context.Context, from, to *time.Time) ([]*entity.AppointmentWithClient, error)
	// ListByClient ordena por fecha descendente.
	ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error)
}
