package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	appinventory "github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El total solo cambia vía movimientos.
type ProductUseCase struct {
	txRunner  appinventory.TxRunner
	repo      repository.ProductRepository
	batchRepo repository.BatchRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner appinventory.TxRunner, repo repository.ProductRepository, batchRepo repository.BatchRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, batchRepo: batchRepo}
}

// Create crea un producto con total 0. Una cantidad inicial > 0 se registra como
// movimiento de entrada en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Nombre),
		Description:     in.Descripcion,
		Unit:            strings.ToLower(strings.TrimSpace(in.UnidadMedida)),
		Total:           decimal.Zero,
		MinimumQuantity: in.CantidadMinima,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	var initial decimal.Decimal
	if in.CantidadInicial != nil {
		if in.CantidadInicial.IsNegative() {
			return nil, domain.Invalid("cantidadInicial", "no puede ser negativa")
		}
		if err := inventory.ValidatePrecision("cantidadInicial", *in.CantidadInicial); err != nil {
			return nil, err
		}
		initial = *in.CantidadInicial
	}

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
		movRepo repository.MovementRepository,
		_ repository.MaterialUsedRepository,
		_ repository.AppointmentRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return wrapRepoErr("crear producto", err)
		}
		if !initial.IsPositive() {
			return nil
		}
		if err := movRepo.Create(ctx, &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			Kind:        entity.MovementEntry,
			Quantity:    initial,
			Reason:      "cantidad inicial",
			PerformedBy: actor.UserID,
			CreatedAt:   now,
		}); err != nil {
			return domain.Storage("crear movimiento inicial", err)
		}
		total, err := productRepo.AddToTotal(ctx, product.ID, initial)
		if err != nil {
			return domain.Storage("actualizar total", err)
		}
		product.Total = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// GetByID obtiene un producto con sus lotes.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener producto", err)
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	batches, err := uc.batchRepo.ListByProducts(ctx, []string{id})
	if err != nil {
		return nil, domain.Storage("listar lotes", err)
	}
	return toProductResponse(product, batches), nil
}

// List lista productos por nombre, cada uno con sus lotes y la marca de stock bajo.
func (uc *ProductUseCase) List(ctx context.Context) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.Storage("listar productos", err)
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	byProduct := map[string][]*entity.Batch{}
	if len(ids) > 0 {
		batches, err := uc.batchRepo.ListByProducts(ctx, ids)
		if err != nil {
			return nil, domain.Storage("listar lotes", err)
		}
		for _, b := range batches {
			byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
		}
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p, byProduct[p.ID]))
	}
	return out, nil
}

// Update actualiza un producto. No permite modificar el total (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener producto", err)
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	if in.Nombre != nil {
		product.Name = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		product.Description = *in.Descripcion
	}
	if in.UnidadMedida != nil {
		product.Unit = strings.ToLower(strings.TrimSpace(*in.UnidadMedida))
	}
	if in.CantidadMinima != nil {
		product.MinimumQuantity = in.CantidadMinima
	}
	if in.SinMinimo {
		product.MinimumQuantity = nil
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, wrapRepoErr("actualizar producto", err)
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el producto junto con sus lotes, movimientos y materiales usados.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("producto", id)
		}
		return wrapRepoErr("eliminar producto", err)
	}
	return nil
}

func validateProduct(p *entity.Product) error {
	if p.Name == "" {
		return domain.Invalid("nombre", "requerido")
	}
	if !entity.ValidUnit(p.Unit) {
		return domain.Invalid("unidadMedida", "unidad no admitida: "+strings.Join(entity.UnitsOfMeasure, ", "))
	}
	if p.MinimumQuantity != nil && p.MinimumQuantity.IsNegative() {
		return domain.Invalid("cantidadMinima", "no puede ser negativa")
	}
	if p.MinimumQuantity != nil {
		return inventory.ValidatePrecision("cantidadMinima", *p.MinimumQuantity)
	}
	return nil
}

func toProductResponse(p *entity.Product, batches []*entity.Batch) *dto.ProductResponse {
	lotes := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		lotes = append(lotes, dto.FromBatch(b))
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Nombre:         p.Name,
		Descripcion:    p.Description,
		UnidadMedida:   p.Unit,
		CantidadTotal:  p.Total,
		CantidadMinima: p.MinimumQuantity,
		StockBajo:      inventory.IsLowStock(p.Total, p.MinimumQuantity),
		Lotes:          lotes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
