package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory registro histórico de costo y precios de un producto.
// Se agrega uno por cada recepción de compra que recalcula precios.
type PriceHistory struct {
	ID             string
	ProductID      string
	Cost           decimal.Decimal
	Price          decimal.Decimal
	PriceWholesale decimal.Decimal
	FxRate         decimal.Decimal
	Source         string // ej. "COMPRA 45"
	CreatedAt      time.Time
}
