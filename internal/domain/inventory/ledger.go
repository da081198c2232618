package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
)

// QuantityScale decimales que guardan las columnas NUMERIC(14,3).
const QuantityScale = 3

// maxQuantity primer valor que ya no cabe en NUMERIC(14,3).
var maxQuantity = decimal.New(1, 11)

// ValidateQuantity exige cantidad estrictamente positiva y representable sin redondeo.
func ValidateQuantity(q decimal.Decimal) error {
	if !q.GreaterThan(decimal.Zero) {
		return domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	return ValidatePrecision("cantidad", q)
}

// ValidatePrecision rechaza valores con más de QuantityScale decimales o fuera de rango.
func ValidatePrecision(field string, q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return domain.Invalid(field, "admite como máximo 3 decimales")
	}
	if q.Abs().GreaterThanOrEqual(maxQuantity) {
		return domain.Invalid(field, "fuera de rango")
	}
	return nil
}

// SignedDelta variación del total que produce un movimiento: +q en entrada, -q en salida.
func SignedDelta(kind entity.MovementKind, q decimal.Decimal) decimal.Decimal {
	if kind == entity.MovementExit {
		return q.Neg()
	}
	return q
}

// IsLowStock stock bajo: total < mínimo, solo si hay mínimo configurado.
func IsLowStock(total decimal.Decimal, minimum *decimal.Decimal) bool {
	return minimum != nil && total.LessThan(*minimum)
}

// ExceedsStock indica si una salida es mayor que el total disponible.
// El ledger no la bloquea (permite corregir históricos); solo la informa.
func ExceedsStock(kind entity.MovementKind, q, total decimal.Decimal) bool {
	return kind == entity.MovementExit && q.GreaterThan(total)
}

// SuggestedOrder cantidad sugerida para volver a 1.5 × mínimo; cero si no aplica.
func SuggestedOrder(total decimal.Decimal, minimum decimal.Decimal) decimal.Decimal {
	ideal := minimum.Mul(decimal.NewFromFloat(1.5))
	q := ideal.Sub(total)
	if q.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return q
}

// Recompute total derivado de una lista de movimientos.
func Recompute(movements []entity.Movement) (entries, exits, total decimal.Decimal) {
	entries, exits = decimal.Zero, decimal.Zero
	for _, m := range movements {
		if m.Kind == entity.MovementExit {
			exits = exits.Add(m.Quantity)
		} else {
			entries = entries.Add(m.Quantity)
		}
	}
	return entries, exits, entries.Sub(exits)
}
