package inventory

import (
	"context"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// VerifyLedger recalcula el total de un producto desde sus movimientos y lo compara
// con el total cacheado. Lee ambos bajo el mismo bloqueo de fila.
func (uc *LedgerUseCase) VerifyLedger(ctx context.Context, productID string) (*dto.LedgerCheckResponse, error) {
	var out *dto.LedgerCheckResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
		movRepo repository.MovementRepository,
		_ repository.MaterialUsedRepository,
		_ repository.AppointmentRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return domain.Storage("bloquear producto", err)
		}
		if product == nil {
			return domain.NotFound("producto", productID)
		}
		entries, exits, err := movRepo.Totals(ctx, productID)
		if err != nil {
			return domain.Storage("sumar movimientos", err)
		}
		computed := entries.Sub(exits)
		out = &dto.LedgerCheckResponse{
			ProductoID:   productID,
			TotalCache:   product.Total,
			Entradas:     entries,
			Salidas:      exits,
			TotalCalculo: computed,
			Consistente:  computed.Equal(product.Total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistente {
		uc.log.Error().Str("product_id", productID).Str("cached", out.TotalCache.String()).Str("computed", out.TotalCalculo.String()).Msg("total de inventario inconsistente con los movimientos")
	}
	return out, nil
}

// ListMovements movimientos más recientes primero, con nombre de producto y usuario.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, domain.Storage("listar movimientos", err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		r := dto.FromMovement(&m.Movement)
		r.ProductoNombre = m.ProductName
		r.Usuario = m.Username
		items = append(items, r)
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
