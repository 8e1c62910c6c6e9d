// Package pricing implementa el colaborador de precios: recalcula costo local
// y precios de venta al recibir mercadería.
package pricing

import "github.com/shopspring/decimal"

// Margins márgenes de ganancia sobre el costo local (0.35 = 35%).
type Margins struct {
	Retail    decimal.Decimal
	Wholesale decimal.Decimal
}

// PriceSet resultado del recálculo de precios de un producto.
type PriceSet struct {
	CostLocal      decimal.Decimal
	Price          decimal.Decimal
	PriceWholesale decimal.Decimal
}

// FromCostLocal arma el juego de precios sobre un costo en moneda local
// (el promedio ponderado tras una recepción). Precio = costo * (1 + margen),
// redondeado a 2 decimales.
func FromCostLocal(cost decimal.Decimal, m Margins) PriceSet {
	one := decimal.NewFromInt(1)
	return PriceSet{
		CostLocal:      cost,
		Price:          cost.Mul(one.Add(m.Retail)).Round(2),
		PriceWholesale: cost.Mul(one.Add(m.Wholesale)).Round(2),
	}
}

// WeightedAverageCost costo promedio ponderado entre el stock actual y una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}
