package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/application/scheduling"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and scheduling.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ scheduling.TxRunner = (*TxRunner)(nil)

// schedulingLockKey clave del lock consultivo que serializa la agenda.
const schedulingLockKey int64 = 0x61676e64 // "agnd"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	materialRepo repository.MaterialUsedRepository,
	apptRepo repository.AppointmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewProductRepository(tx),
		NewBatchRepository(tx),
		NewMovementRepository(tx),
		NewMaterialUsedRepository(tx),
		NewAppointmentRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunScheduling igual que Run pero toma antes pg_advisory_xact_lock: dos reservas
// concurrentes no pueden verificar conflictos a la vez. El lock se libera al cerrar la tx.
func (r *TxRunner) RunScheduling(ctx context.Context, fn func(
	apptRepo repository.AppointmentRepository,
	materialRepo repository.MaterialUsedRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, schedulingLockKey); err != nil {
		return fmt.Errorf("scheduling lock: %w", err)
	}
	if err := fn(NewAppointmentRepository(tx), NewMaterialUsedRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
