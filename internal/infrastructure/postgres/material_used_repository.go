package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

var _ repository.MaterialUsedRepository = (*MaterialUsedRepo)(nil)

// MaterialUsedRepo materiales usados en citas sobre PostgreSQL.
type MaterialUsedRepo struct {
	q Querier
}

// NewMaterialUsedRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialUsedRepository(q Querier) *MaterialUsedRepo {
	return &MaterialUsedRepo{q: q}
}

func (r *MaterialUsedRepo) Create(ctx context.Context, m *entity.MaterialUsed) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO materials_used (id, product_id, quantity, batch_id, appointment_id, movement_id, used_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProductID, m.Quantity, nullable(m.BatchID), m.AppointmentID, m.MovementID, m.UsedAt, m.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert material used: %w", err)
	}
	return nil
}

// ListByAppointments materiales de varias citas en una sola consulta; el agrupado se hace en memoria.
func (r *MaterialUsedRepo) ListByAppointments(ctx context.Context, appointmentIDs []string) ([]*entity.MaterialUsedDetail, error) {
	if len(appointmentIDs) == 0 {
		return []*entity.MaterialUsedDetail{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT mu.id, mu.product_id, mu.quantity, mu.batch_id, mu.appointment_id, mu.movement_id,
			mu.used_at, mu.notes, p.name, p.unit
		FROM materials_used mu
		JOIN products p ON p.id = mu.product_id
		WHERE mu.appointment_id = ANY($1)
		ORDER BY mu.used_at`, appointmentIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list materials used: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.MaterialUsedDetail, 0)
	for rows.Next() {
		var m entity.MaterialUsedDetail
		var batchID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Quantity, &batchID, &m.AppointmentID, &m.MovementID,
			&m.UsedAt, &m.Notes, &m.ProductName, &m.Unit); err != nil {
			return nil, fmt.Errorf("scan material used: %w", err)
		}
		m.BatchID = deref(batchID)
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MaterialUsedRepo) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM materials_used WHERE appointment_id = $1`, appointmentID); err != nil {
		return fmt.Errorf("delete materials used: %w", err)
	}
	return nil
}
