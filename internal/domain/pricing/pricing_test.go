package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/retail-ops/internal/domain/pricing"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFromCostLocal(t *testing.T) {
	m := pricing.Margins{Retail: d("0.35"), Wholesale: d("0.20")}

	// Costo local 5000 (5 USD a cotización 1000).
	ps := pricing.FromCostLocal(d("5000"), m)
	assert.True(t, ps.CostLocal.Equal(d("5000")), "cost got %s", ps.CostLocal)
	assert.True(t, ps.Price.Equal(d("6750")), "price got %s", ps.Price)
	assert.True(t, ps.PriceWholesale.Equal(d("6000")), "wholesale got %s", ps.PriceWholesale)

	// Redondeo a 2 decimales.
	ps = pricing.FromCostLocal(d("10.333"), m)
	assert.True(t, ps.CostLocal.Equal(d("10.333")))
	assert.True(t, ps.Price.Equal(d("13.95")), "price got %s", ps.Price)
	assert.True(t, ps.PriceWholesale.Equal(d("12.40")), "wholesale got %s", ps.PriceWholesale)
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 unidades a 100 + 5 unidades a 130 = promedio 110.
	avg := pricing.WeightedAverageCost(d("10"), d("100"), d("5"), d("130"))
	assert.True(t, avg.Equal(d("110")), "got %s", avg)

	// Sin stock previo el promedio es el costo de la entrada.
	avg = pricing.WeightedAverageCost(d("0"), d("0"), d("4"), d("75"))
	assert.True(t, avg.Equal(d("75")), "got %s", avg)

	// Sin cantidades no hay promedio.
	avg = pricing.WeightedAverageCost(d("0"), d("100"), d("0"), d("50"))
	assert.True(t, avg.Equal(decimal.Zero))
}
