package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de una compra a proveedor.
type PurchaseItemRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// CreatePurchaseRequest crea la compra en estado pendiente (sin tocar stock).
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Currency   string                `json:"currency"` // ARS, USD o CNY
	Items      []PurchaseItemRequest `json:"items"`
}

// PurchaseResponse resumen de una compra.
type PurchaseResponse struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Date       time.Time       `json:"date"`
	Currency   string          `json:"currency"`
	FxRate     decimal.Decimal `json:"fx_rate"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Status     string          `json:"status"`
}

// ReceivePurchaseResponse resultado de la recepción (idempotente).
type ReceivePurchaseResponse struct {
	PurchaseID      string `json:"purchase_id"`
	AlreadyReceived bool   `json:"already_received"`
}
