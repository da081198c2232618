package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// CantidadInicial > 0 se registra como movimiento de entrada.
type CreateProductRequest struct {
	Nombre          string           `json:"nombre"`
	Descripcion     string           `json:"descripcion"`
	UnidadMedida    string           `json:"unidadMedida"`
	CantidadInicial *decimal.Decimal `json:"cantidadInicial"`
	CantidadMinima  *decimal.Decimal `json:"cantidadMinima"`
}

// UpdateProductRequest entrada para actualizar un producto (nunca el total).
type UpdateProductRequest struct {
	Nombre         *string          `json:"nombre"`
	Descripcion    *string          `json:"descripcion"`
	UnidadMedida   *string          `json:"unidadMedida"`
	CantidadMinima *decimal.Decimal `json:"cantidadMinima"`
	SinMinimo      bool             `json:"sinMinimo"` // true elimina el umbral
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string           `json:"id"`
	Nombre         string           `json:"nombre"`
	Descripcion    string           `json:"descripcion"`
	UnidadMedida   string           `json:"unidadMedida"`
	CantidadTotal  decimal.Decimal  `json:"cantidadTotal"`
	CantidadMinima *decimal.Decimal `json:"cantidadMinima,omitempty"`
	StockBajo      bool             `json:"stockBajo"`
	Lotes          []BatchResponse  `json:"lotes,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}
