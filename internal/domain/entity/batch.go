package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch (lote) cantidad recibida de un producto. Registro aditivo.
type Batch struct {
	ID         string
	ProductID  string
	Quantity   decimal.Decimal
	ReceivedAt time.Time
	ExpiresAt  *time.Time
	LotNumber  string
	Supplier   string
	Notes      string
}
