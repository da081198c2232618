package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas.
var UnitsOfMeasure = []string{"litros", "kg", "gramos", "unidades", "ml", "mg", "lb", "oz"}

// ValidUnit indica si u es una unidad de medida admitida.
func ValidUnit(u string) bool {
	for _, x := range UnitsOfMeasure {
		if x == u {
			return true
		}
	}
	return false
}

// Product representa un material en inventario.
// Total es el acumulado cacheado de movimientos; solo lo modifica el ledger.
type Product struct {
	ID              string
	Name            string
	Description     string
	Unit            string
	Total           decimal.Decimal
	MinimumQuantity *decimal.Decimal // umbral opcional de stock bajo
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
