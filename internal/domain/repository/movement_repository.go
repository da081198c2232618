package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// MovementFilter filtros de listado. ProductID vacío = todos.
type MovementFilter struct {
	ProductID string
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementWithDetails, error)
	// Totals suma entradas y salidas de un producto.
	Totals(ctx context.Context, productID string) (entries, exits decimal.Decimal, err error)
}
