package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta. UnitPrice en cero o ausente toma el
// precio vigente del producto.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest creación de venta: descuenta stock por cada línea en la
// misma transacción.
type CreateSaleRequest struct {
	ClientID    string            `json:"client_id"`
	WarehouseID string            `json:"warehouse_id"` // vacío = bodega por defecto
	Discount    decimal.Decimal   `json:"discount"`
	Taxes       decimal.Decimal   `json:"taxes"`
	Items       []SaleItemRequest `json:"items"`
}

// SaleResponse resumen de una venta creada o consultada.
type SaleResponse struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Date           time.Time       `json:"date"`
	Total          decimal.Decimal `json:"total"`
	Discount       decimal.Decimal `json:"discount"`
	Taxes          decimal.Decimal `json:"taxes"`
	Net            decimal.Decimal `json:"net"`
	PaymentStatus  string          `json:"payment_status"`
	DeliveryStatus string          `json:"delivery_status"`
}

// SaleItemResponse línea de detalle de una venta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
