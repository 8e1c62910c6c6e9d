package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago y entrega de una venta.
const (
	PaymentStatusPending   = "pendiente"
	PaymentStatusPaid      = "pagado"
	PaymentStatusCancelled = "cancelado"

	DeliveryStatusPending   = "pendiente"
	DeliveryStatusDelivered = "entregado"
)

// Sale representa una venta. El stock se descuenta al crearla (una salida por
// ítem, en la misma transacción); la entrega solo cambia el estado. La bodega
// queda en la cabecera: la cancelación repone ahí, no en la bodega por defecto.
type Sale struct {
	ID             string
	ClientID       string
	WarehouseID    string
	Date           time.Time
	Total          decimal.Decimal // suma de subtotales
	Discount       decimal.Decimal
	Taxes          decimal.Decimal
	Net            decimal.Decimal // Total - Discount + Taxes
	PaymentStatus  string
	DeliveryStatus string
	CreatedAt      time.Time
}

// SaleItem línea de detalle de una venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
