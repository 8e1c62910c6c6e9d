package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra a proveedor.
const (
	PurchaseStatusPending  = "pendiente"
	PurchaseStatusReceived = "recibido"
)

// Monedas aceptadas en compras.
const (
	CurrencyLocal = "ARS"
	CurrencyUSD   = "USD"
	CurrencyCNY   = "CNY"
)

// Purchase representa una compra a proveedor. Al pasar a "recibido" se
// incrementa el stock de cada línea exactamente una vez (recepción idempotente).
type Purchase struct {
	ID         string
	SupplierID string
	Date       time.Time
	Currency   string
	FxRate     decimal.Decimal // cotización a moneda local al momento de la compra
	TotalCost  decimal.Decimal
	Status     string
	ReceivedAt *time.Time
	CreatedAt  time.Time
}

// PurchaseItem línea de detalle de una compra.
type PurchaseItem struct {
	ID           string
	PurchaseID   string
	ProductID    string
	Quantity     int64
	UnitCost     decimal.Decimal // en la moneda de la compra
	ShippingCost decimal.Decimal
	Subtotal     decimal.Decimal
}
