package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El total solo se modifica con AddToTotal.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AddToTotal aplica total = total + delta de forma atómica y devuelve el nuevo total.
	AddToTotal(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
