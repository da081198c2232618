package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/application/dto"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/inventory"
)

// LowStockReport devuelve los productos por debajo de su cantidad mínima con la
// cantidad sugerida para volver al stock ideal (mínimo * 1.5), ordenados por urgencia.
func (uc *LedgerUseCase) LowStockReport(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	products, err := uc.productRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, domain.Storage("listar productos bajo mínimo", err)
	}

	items := make([]dto.LowStockItemResponse, 0, len(products))
	for _, p := range products {
		if !inventory.IsLowStock(p.Total, p.MinimumQuantity) {
			continue
		}
		minimum := *p.MinimumQuantity
		items = append(items, dto.LowStockItemResponse{
			ProductoID:       p.ID,
			Nombre:           p.Name,
			UnidadMedida:     p.Unit,
			StockActual:      p.Total,
			CantidadMinima:   minimum,
			StockIdeal:       minimum.Mul(decimal.NewFromFloat(1.5)),
			CantidadSugerida: inventory.SuggestedOrder(p.Total, minimum),
			Deficit:          minimum.Sub(p.Total),
		})
	}

	// Primero el mayor déficit relativo al mínimo; empate por déficit absoluto.
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := relativeDeficit(items[i]), relativeDeficit(items[j])
		if !ri.Equal(rj) {
			return ri.GreaterThan(rj)
		}
		return items[i].Deficit.GreaterThan(items[j].Deficit)
	})
	for i := range items {
		items[i].Prioridad = i + 1
	}
	return items, nil
}

func relativeDeficit(it dto.LowStockItemResponse) decimal.Decimal {
	if it.CantidadMinima.IsZero() {
		return decimal.Zero
	}
	return it.Deficit.Div(it.CantidadMinima)
}
