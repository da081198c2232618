package repository

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	ListByProducts(ctx context.Context, productIDs []string) ([]*entity.Batch, error)
}
