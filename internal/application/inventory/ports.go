package inventory

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		materialRepo repository.MaterialUsedRepository,
		apptRepo repository.AppointmentRepository,
	) error) error
}
