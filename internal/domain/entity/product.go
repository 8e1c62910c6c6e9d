package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// Cost/Price/PriceWholesale son propiedad del colaborador de precios (se recalculan
// al recibir compras); el motor de stock solo los lee.
type Product struct {
	ID             string
	Code           string // código único
	Name           string
	Description    string
	Cost           decimal.Decimal // costo en moneda local
	Price          decimal.Decimal // precio de venta minorista
	PriceWholesale decimal.Decimal // precio mayorista
	MinStock       int64           // umbral para alarma de stock bajo
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
