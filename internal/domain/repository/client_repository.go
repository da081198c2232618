package repository

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Delete devuelve domain.ErrInUse si el cliente aún tiene citas.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByDocument(ctx context.Context, documentNumber string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
