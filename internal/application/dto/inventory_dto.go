package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movements.
// realizadoPor se ignora: el actor sale del token.
type RegisterMovementRequest struct {
	ProductID     string          `json:"productId"`
	ProductoID    string          `json:"productoId,omitempty"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	LoteID        string          `json:"loteId,omitempty"`
	CitaID        string          `json:"citaId,omitempty"`
	AsignadoACita bool            `json:"asignadoACita"`
	Motivo        string          `json:"motivo,omitempty"`
	RealizadoPor  string          `json:"realizadoPor,omitempty"`
}

// Product devuelve productId o, si viene vacío, el alias productoId.
func (r RegisterMovementRequest) Product() string {
	if r.ProductID != "" {
		return r.ProductID
	}
	return r.ProductoID
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"productoId"`
	ProductoNombre string          `json:"productoNombre,omitempty"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	LoteID         string          `json:"loteId,omitempty"`
	CitaID         string          `json:"citaId,omitempty"`
	AsignadoACita  bool            `json:"asignadoACita"`
	Motivo         string          `json:"motivo,omitempty"`
	RealizadoPor   string          `json:"realizadoPor"`
	Usuario        string          `json:"usuario,omitempty"`
	Fecha          time.Time       `json:"fecha"`
}

// RegisterMovementResponse movimiento creado más el nuevo total del producto.
type RegisterMovementResponse struct {
	MovementResponse
	NuevoTotal  decimal.Decimal `json:"nuevoTotal"`
	ExcedeStock bool            `json:"excedeStock"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateBatchRequest body para POST /api/batches.
type CreateBatchRequest struct {
	ProductoID       string          `json:"productoId"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	FechaIngreso     string          `json:"fechaIngreso"`
	FechaVencimiento string          `json:"fechaVencimiento,omitempty"`
	NumeroLote       string          `json:"numeroLote,omitempty"`
	Proveedor        string          `json:"proveedor,omitempty"`
	Notas            string          `json:"notas,omitempty"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID               string          `json:"id"`
	ProductoID       string          `json:"productoId"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	FechaIngreso     time.Time       `json:"fechaIngreso"`
	FechaVencimiento *time.Time      `json:"fechaVencimiento,omitempty"`
	NumeroLote       string          `json:"numeroLote,omitempty"`
	Proveedor        string          `json:"proveedor,omitempty"`
	Notas            string          `json:"notas,omitempty"`
}

// ConsumeMaterialsRequest body para POST /api/appointments/:id/materials.
type ConsumeMaterialsRequest struct {
	Materiales []ConsumeItemRequest `json:"materiales"`
}

// ConsumeItemRequest un material a descontar.
type ConsumeItemRequest struct {
	ProductoID string          `json:"productoId"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	LoteID     string          `json:"loteId,omitempty"`
	Notas      string          `json:"notas,omitempty"`
}

// ConsumeMaterialsResponse resultado por ítem: aplicados y fallidos.
type ConsumeMaterialsResponse struct {
	Aplicados []RegisterMovementResponse `json:"aplicados"`
	Fallidos  []ConsumeFailureResponse   `json:"fallidos"`
}

// ConsumeFailureResponse ítem que no pudo aplicarse.
type ConsumeFailureResponse struct {
	Indice     int    `json:"indice"`
	ProductoID string `json:"productoId"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// LedgerCheckResponse verificación del total cacheado contra los movimientos.
type LedgerCheckResponse struct {
	ProductoID   string          `json:"productoId"`
	TotalCache   decimal.Decimal `json:"totalCache"`
	Entradas     decimal.Decimal `json:"entradas"`
	Salidas      decimal.Decimal `json:"salidas"`
	TotalCalculo decimal.Decimal `json:"totalCalculado"`
	Consistente  bool            `json:"consistente"`
}

// LowStockItemResponse producto bajo su cantidad mínima con la reposición sugerida.
type LowStockItemResponse struct {
	ProductoID       string          `json:"productoId"`
	Nombre           string          `json:"nombre"`
	UnidadMedida     string          `json:"unidadMedida"`
	StockActual      decimal.Decimal `json:"stockActual"`
	CantidadMinima   decimal.Decimal `json:"cantidadMinima"`
	StockIdeal       decimal.Decimal `json:"stockIdeal"`       // mínimo * 1.5
	CantidadSugerida decimal.Decimal `json:"cantidadSugerida"` // ideal - actual
	Deficit          decimal.Decimal `json:"deficit"`
	Prioridad        int             `json:"prioridad"` // 1 = más urgente
}
