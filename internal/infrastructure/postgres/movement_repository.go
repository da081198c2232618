package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos de inventario sobre PostgreSQL (usable con pool o tx). Solo inserción.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, kind, quantity, batch_id, appointment_id,
			applied_to_appointment, reason, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, string(m.Kind), m.Quantity, nullable(m.BatchID), nullable(m.AppointmentID),
		m.AppliedToAppointment, m.Reason, nullable(m.PerformedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// List movimientos con nombre de producto y usuario, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementWithDetails, error) {
	query := `
		SELECT m.id, m.product_id, m.kind, m.quantity, m.batch_id, m.appointment_id,
			m.applied_to_appointment, m.reason, m.performed_by, m.created_at,
			COALESCE(p.name, ''), COALESCE(u.username, '')
		FROM inventory_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN users u ON u.id = m.performed_by
		WHERE ($1 = '' OR m.product_id::text = $1)
		ORDER BY m.created_at DESC, m.id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, f.ProductID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.MovementWithDetails, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Totals suma de entradas y de salidas del producto.
func (r *MovementRepo) Totals(ctx context.Context, productID string) (decimal.Decimal, decimal.Decimal, error) {
	var entries, exits decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity) FILTER (WHERE kind = 'entry'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE kind = 'exit'), 0)
		FROM inventory_movements WHERE product_id = $1`, productID,
	).Scan(&entries, &exits)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum inventory movements: %w", err)
	}
	return entries, exits, nil
}

func scanMovement(row pgx.Row) (*entity.MovementWithDetails, error) {
	var m entity.MovementWithDetails
	var kind string
	var batchID, appointmentID, performedBy *string
	err := row.Scan(&m.ID, &m.ProductID, &kind, &m.Quantity, &batchID, &appointmentID,
		&m.AppliedToAppointment, &m.Reason, &performedBy, &m.CreatedAt,
		&m.ProductName, &m.Username)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	m.BatchID = deref(batchID)
	m.AppointmentID = deref(appointmentID)
	m.PerformedBy = deref(performedBy)
	return &m, nil
}
