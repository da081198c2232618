package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
	"github.com/jhoicas/agenda-citas-api/internal/domain/scheduling"
)

const defaultColor = "#3b82f6"

// SchedulerUseCase agenda de citas: toda reserva o reprogramación pasa por la
// detección de conflictos dentro de la misma transacción que la escritura.
type SchedulerUseCase struct {
	txRunner   TxRunner
	apptRepo   repository.AppointmentRepository
	clientRepo repository.ClientRepository
	log        zerolog.Logger
	now        func() time.Time
}

// NewSchedulerUseCase construye el caso de uso.
func NewSchedulerUseCase(
	txRunner TxRunner,
	apptRepo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	log zerolog.Logger,
) *SchedulerUseCase {
	return &SchedulerUseCase{
		txRunner:   txRunner,
		apptRepo:   apptRepo,
		clientRepo: clientRepo,
		log:        log,
		now:        time.Now,
	}
}

// CheckConflict informa las citas activas que se solapan con [fecha, fecha+duracion).
// No escribe nada.
func (uc *SchedulerUseCase) CheckConflict(ctx context.Context, in dto.CheckConflictRequest) (*dto.CheckConflictResponse, error) {
	candidate, err := scheduling.NewInterval(in.Fecha.Time, in.Duracion)
	if err != nil {
		return nil, err
	}
	conflicts, err := findConflicts(ctx, uc.apptRepo, candidate, in.ExcludeID)
	if err != nil {
		return nil, err
	}
	return &dto.CheckConflictResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   dto.FromAppointments(conflicts),
	}, nil
}

// Create agenda una cita nueva en estado scheduled. Devuelve *scheduling.ConflictError
// sin persistir nada si choca con otra cita activa.
func (uc *SchedulerUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if strings.TrimSpace(in.ClienteID) == "" {
		return nil, domain.Invalid("clienteId", "requerido")
	}
	if strings.TrimSpace(in.Titulo) == "" {
		return nil, domain.Invalid("titulo", "requerido")
	}
	candidate, err := scheduling.NewInterval(in.Fecha.Time, in.Duracion)
	if err != nil {
		return nil, err
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, domain.Storage("obtener cliente", err)
	}
	if client == nil {
		return nil, domain.NotFound("cliente", in.ClienteID)
	}

	now := uc.now()
	color := in.Color
	if color == "" {
		color = defaultColor
	}
	appt := &entity.Appointment{
		ID:              uuid.New().String(),
		ClientID:        client.ID,
		Title:           strings.TrimSpace(in.Titulo),
		Description:     in.Descripcion,
		StartAt:         in.Fecha.Time,
		DurationMinutes: in.Duracion,
		Color:           color,
		Status:          entity.StatusScheduled,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.RunScheduling(ctx, func(apptRepo repository.AppointmentRepository, _ repository.MaterialUsedRepository) error {
		conflicts, err := findConflicts(ctx, apptRepo, candidate, "")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &scheduling.ConflictError{Conflicts: conflicts}
		}
		if err := apptRepo.Create(ctx, appt); err != nil {
			return domain.Storage("crear cita", err)
		}
		return nil
	})
	if err != nil {
		uc.logRejected(err, actor, "create", in.Fecha.Time)
		return nil, err
	}

	uc.log.Info().Str("appointment_id", appt.ID).Str("user_id", actor.UserID).Time("start", appt.StartAt).Msg("cita agendada")
	resp := dto.FromAppointment(*appt, client.FullName())
	return &resp, nil
}

// Update aplica los cambios presentes en in. Mover la cita (fecha/duración) o
// reactivar una cancelada vuelve a verificar conflictos excluyendo la propia cita.
func (uc *SchedulerUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var status *entity.AppointmentStatus
	if in.Estado != nil {
		s, ok := entity.ParseAppointmentStatus(*in.Estado)
		if !ok {
			return nil, domain.Invalid("estado", "valor no admitido")
		}
		status = &s
	}
	if in.Titulo != nil && strings.TrimSpace(*in.Titulo) == "" {
		return nil, domain.Invalid("titulo", "requerido")
	}
	if in.ClienteID != nil {
		client, err := uc.clientRepo.GetByID(ctx, *in.ClienteID)
		if err != nil {
			return nil, domain.Storage("obtener cliente", err)
		}
		if client == nil {
			return nil, domain.NotFound("cliente", *in.ClienteID)
		}
	}

	var updated *entity.Appointment
	err := uc.txRunner.RunScheduling(ctx, func(apptRepo repository.AppointmentRepository, _ repository.MaterialUsedRepository) error {
		current, err := apptRepo.GetByID(ctx, id)
		if err != nil {
			return domain.Storage("obtener cita", err)
		}
		if current == nil {
			return domain.NotFound("cita", id)
		}
		next := *current
		if in.ClienteID != nil {
			next.ClientID = *in.ClienteID
		}
		if in.Titulo != nil {
			next.Title = strings.TrimSpace(*in.Titulo)
		}
		if in.Descripcion != nil {
			next.Description = *in.Descripcion
		}
		if in.Color != nil {
			next.Color = *in.Color
		}
		if in.Fecha != nil {
			next.StartAt = in.Fecha.Time
		}
		if in.Duracion != nil {
			next.DurationMinutes = *in.Duracion
		}
		if status != nil {
			if err := scheduling.CanTransition(current.Status, *status); err != nil {
				return err
			}
			next.Status = *status
		}

		candidate, err := scheduling.NewInterval(next.StartAt, next.DurationMinutes)
		if err != nil {
			return err
		}
		moved := !next.StartAt.Equal(current.StartAt) || next.DurationMinutes != current.DurationMinutes
		if scheduling.NeedsConflictCheck(next.Status, moved, current.Status) {
			conflicts, err := findConflicts(ctx, apptRepo, candidate, id)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &scheduling.ConflictError{Conflicts: conflicts}
			}
		}

		next.UpdatedAt = uc.now()
		if err := apptRepo.Update(ctx, &next); err != nil {
			return domain.Storage("actualizar cita", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		when := time.Time{}
		if in.Fecha != nil {
			when = in.Fecha.Time
		}
		uc.logRejected(err, actor, "update", when)
		return nil, err
	}

	uc.log.Info().Str("appointment_id", id).Str("user_id", actor.UserID).Str("status", string(updated.Status)).Msg("cita actualizada")
	return uc.Get(ctx, id)
}

// Cancel pasa la cita a cancelled; deja de participar en la detección de conflictos.
func (uc *SchedulerUseCase) Cancel(ctx context.Context, actor access.Actor, id string) (*dto.AppointmentResponse, error) {
	s := string(entity.StatusCancelled)
	return uc.Update(ctx, actor, id, dto.UpdateAppointmentRequest{Estado: &s})
}

// Complete pasa la cita a completed.
func (uc *SchedulerUseCase) Complete(ctx context.Context, actor access.Actor, id string) (*dto.AppointmentResponse, error) {
	s := string(entity.StatusCompleted)
	return uc.Update(ctx, actor, id, dto.UpdateAppointmentRequest{Estado: &s})
}

// Delete elimina la cita y sus materiales usados en una sola transacción.
// Los movimientos de inventario se conservan (la FK queda en NULL).
func (uc *SchedulerUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	err := uc.txRunner.RunScheduling(ctx, func(apptRepo repository.AppointmentRepository, materialRepo repository.MaterialUsedRepository) error {
		current, err := apptRepo.GetByID(ctx, id)
		if err != nil {
			return domain.Storage("obtener cita", err)
		}
		if current == nil {
			return domain.NotFound("cita", id)
		}
		if err := materialRepo.DeleteByAppointment(ctx, id); err != nil {
			return domain.Storage("eliminar materiales de la cita", err)
		}
		if err := apptRepo.Delete(ctx, id); err != nil {
			return domain.Storage("eliminar cita", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("appointment_id", id).Str("user_id", actor.UserID).Msg("cita eliminada")
	return nil
}

// Get obtiene una cita con el nombre del cliente.
func (uc *SchedulerUseCase) Get(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	a, err := uc.apptRepo.GetWithClient(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener cita", err)
	}
	if a == nil {
		return nil, domain.NotFound("cita", id)
	}
	resp := dto.FromAppointmentWithClient(a)
	return &resp, nil
}

// List citas ordenadas por fecha ascendente, opcionalmente acotadas a [from, to].
func (uc *SchedulerUseCase) List(ctx context.Context, from, to *time.Time) ([]dto.AppointmentResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Invalid("hasta", "anterior a desde")
	}
	list, err := uc.apptRepo.List(ctx, from, to)
	if err != nil {
		return nil, domain.Storage("listar citas", err)
	}
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.FromAppointmentWithClient(a))
	}
	return out, nil
}

func (uc *SchedulerUseCase) logRejected(err error, actor access.Actor, op string, start time.Time) {
	var ce *scheduling.ConflictError
	if errors.As(err, &ce) {
		ids := make([]string, 0, len(ce.Conflicts))
		for _, c := range ce.Conflicts {
			ids = append(ids, c.ID)
		}
		uc.log.Warn().Str("op", op).Str("user_id", actor.UserID).Time("start", start).Strs("conflicts", ids).Msg("reserva rechazada por conflicto de horario")
	}
}

// findConflicts usa el prefiltro del repositorio y decide con el algoritmo de dominio.
func findConflicts(ctx context.Context, repo repository.AppointmentRepository, candidate scheduling.Interval, excludeID string) ([]entity.Appointment, error) {
	nearby, err := repo.ListActiveBetween(ctx, candidate.Start, candidate.End)
	if err != nil {
		return nil, domain.Storage("buscar citas solapadas", err)
	}
	return scheduling.FindConflicts(candidate, nearby, excludeID), nil
}
