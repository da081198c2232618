package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

const appointmentColumns = `a.id, a.client_id, a.title, a.description, a.start_at, a.duration_minutes,
	a.color, a.status, a.created_by, a.created_at, a.updated_at`

// AppointmentRepo implementación del puerto AppointmentRepository sobre PostgreSQL (usable con pool o tx).
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

// Create persiste una cita. Cliente inexistente → NotFoundError.
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, client_id, title, description, start_at, duration_minutes, color, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ClientID, a.Title, a.Description, a.StartAt, a.DurationMinutes,
		a.Color, string(a.Status), nullable(a.CreatedBy), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("cliente", a.ClientID)
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID obtiene una cita por ID.
func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// GetWithClient obtiene una cita con el nombre del cliente.
func (r *AppointmentRepo) GetWithClient(ctx context.Context, id string) (*entity.AppointmentWithClient, error) {
	query := `SELECT ` + appointmentColumns + `, c.first_name, c.last_name
		FROM appointments a JOIN clients c ON c.id = a.client_id
		WHERE a.id = $1`
	a, err := scanAppointmentWithClient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment with client: %w", err)
	}
	return a, nil
}

// Update actualiza todos los campos editables de la cita.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	query := `
		UPDATE appointments SET client_id = $2, title = $3, description = $4, start_at = $5,
			duration_minutes = $6, color = $7, status = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.ClientID, a.Title, a.Description, a.StartAt,
		a.DurationMinutes, a.Color, string(a.Status), a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("cliente", a.ClientID)
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cita. Los movimientos que la referencian quedan con appointment_id NULL.
func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveBetween citas no canceladas cuyo intervalo [start, start+duración) corta [from, to).
func (r *AppointmentRepo) ListActiveBetween(ctx context.Context, from, to time.Time) ([]entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.status <> 'cancelled'
		  AND a.start_at < $2
		  AND a.start_at + a.duration_minutes * interval '1 minute' > $1
		ORDER BY a.start_at`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list active appointments: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// List citas con cliente, por fecha ascendente; from/to nil = sin límite.
func (r *AppointmentRepo) List(ctx context.Context, from, to *time.Time) ([]*entity.AppointmentWithClient, error) {
	query := `SELECT ` + appointmentColumns + `, c.first_name, c.last_name
		FROM appointments a JOIN clients c ON c.id = a.client_id
		WHERE ($1::timestamptz IS NULL OR a.start_at >= $1)
		  AND ($2::timestamptz IS NULL OR a.start_at <= $2)
		ORDER BY a.start_at`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var list []*entity.AppointmentWithClient
	for rows.Next() {
		a, err := scanAppointmentWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListByClient citas del cliente, más recientes primero.
func (r *AppointmentRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments a WHERE a.client_id = $1 ORDER BY a.start_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments by client: %w", err)
	}
	defer rows.Close()

	var list []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	var status string
	var createdBy *string
	err := row.Scan(&a.ID, &a.ClientID, &a.Title, &a.Description, &a.StartAt, &a.DurationMinutes,
		&a.Color, &status, &createdBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AppointmentStatus(status)
	a.CreatedBy = deref(createdBy)
	return &a, nil
}

func scanAppointmentWithClient(row pgx.Row) (*entity.AppointmentWithClient, error) {
	var a entity.AppointmentWithClient
	var status string
	var createdBy *string
	err := row.Scan(&a.ID, &a.ClientID, &a.Title, &a.Description, &a.StartAt, &a.DurationMinutes,
		&a.Color, &status, &createdBy, &a.CreatedAt, &a.UpdatedAt,
		&a.ClientFirstName, &a.ClientLastName)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AppointmentStatus(status)
	a.CreatedBy = deref(createdBy)
	return &a, nil
}
