package purchases_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/purchases"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/pricing"
	"github.com/tu-usuario/retail-ops/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-ops/pkg/logger"
)

const (
	supplierID = "sup-1"
	whMain     = "wh-main"
)

type purchasesEnv struct {
	store *memory.Store
	uc    *purchases.UseCase
}

func newPurchasesEnv(t *testing.T) *purchasesEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	engine := inventory.NewStockEngine(&memory.AuditLogRepo{}, logger.Nop())
	cfg := purchases.PricingConfig{
		Margins: pricing.Margins{
			Retail:    decimal.RequireFromString("0.35"),
			Wholesale: decimal.RequireFromString("0.20"),
		},
		FxRates: map[string]decimal.Decimal{
			entity.CurrencyUSD: decimal.NewFromInt(1000),
			entity.CurrencyCNY: decimal.NewFromInt(140),
		},
	}
	uc := purchases.NewUseCase(memory.NewTxRunner(store), engine,
		repos.Suppliers, repos.Products, repos.Warehouses, repos.Purchases, cfg)

	require.NoError(t, repos.Warehouses.Create(&entity.Warehouse{
		ID: whMain, Code: entity.WarehouseCodeMain, Name: "Principal", Active: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, repos.Suppliers.Create(&entity.Supplier{ID: supplierID, Name: "Proveedor Uno", Active: true}))
	require.NoError(t, repos.Products.Create(&entity.Product{
		ID: "p1", Code: "C-p1", Name: "Producto p1", Price: decimal.NewFromInt(10), Active: true,
	}))
	return &purchasesEnv{store: store, uc: uc}
}

func (e *purchasesEnv) available(t *testing.T, productID string) int64 {
	t.Helper()
	rec, err := e.store.Repos().Inventory.Get(productID, whMain)
	require.NoError(t, err)
	return rec.Available
}

func TestCreatePurchase_Pendiente(t *testing.T) {
	env := newPurchasesEnv(t)

	purchase, err := env.uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		Currency:   entity.CurrencyUSD,
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(5), ShippingCost: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusPending, purchase.Status)
	assert.True(t, purchase.FxRate.Equal(decimal.NewFromInt(1000)))
	assert.True(t, purchase.TotalCost.Equal(decimal.NewFromInt(70)), "total = 10*5 + 20, got %s", purchase.TotalCost)

	// Crear la compra no toca el stock.
	assert.Equal(t, int64(0), env.available(t, "p1"))
}

func TestCreatePurchase_MonedaDesconocida(t *testing.T) {
	env := newPurchasesEnv(t)
	_, err := env.uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		Currency:   "EUR",
		Items:      []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(5)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceivePurchase_EntraStockYRecalculaPrecios(t *testing.T) {
	env := newPurchasesEnv(t)

	purchase, err := env.uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		Currency:   entity.CurrencyUSD,
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	resp, err := env.uc.ReceivePurchase(context.Background(), purchase.ID, "", "u1")
	require.NoError(t, err)
	assert.False(t, resp.AlreadyReceived)

	assert.Equal(t, int64(10), env.available(t, "p1"))

	// Sin stock previo el promedio es el costo de la entrada:
	// 5 USD * 1000; precio = costo * 1.35; mayorista * 1.20.
	product, err := env.store.Repos().Products.GetByID("p1")
	require.NoError(t, err)
	assert.True(t, product.Cost.Equal(decimal.NewFromInt(5000)), "cost got %s", product.Cost)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(6750)), "price got %s", product.Price)
	assert.True(t, product.PriceWholesale.Equal(decimal.NewFromInt(6000)), "wholesale got %s", product.PriceWholesale)

	// Queda el histórico de precios apuntando a la compra.
	history, err := env.store.Repos().PriceHistory.ListByProduct("p1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "COMPRA "+purchase.ID, history[0].Source)

	// Movimiento de entrada con motivo compra.
	movs, err := env.store.Repos().Movements.List(entity.MovementFilter{Type: entity.MovementTypeIn}, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "compra", movs[0].Reason)

	got, err := env.store.Repos().Purchases.GetByID(purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)
}

// Recibir dos veces no duplica stock ni histórico: la segunda llamada es un
// éxito sin efectos con already_received.
func TestReceivePurchase_Idempotente(t *testing.T) {
	env := newPurchasesEnv(t)

	purchase, err := env.uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		Items:      []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	_, err = env.uc.ReceivePurchase(context.Background(), purchase.ID, "", "u1")
	require.NoError(t, err)

	resp, err := env.uc.ReceivePurchase(context.Background(), purchase.ID, "", "u1")
	require.NoError(t, err)
	assert.True(t, resp.AlreadyReceived)

	assert.Equal(t, int64(10), env.available(t, "p1"), "la recepción repetida no suma stock")

	history, err := env.store.Repos().PriceHistory.ListByProduct("p1", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1, "la recepción repetida no agrega histórico")

	movs, err := env.store.Repos().Movements.List(entity.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

// Con stock previo el costo del producto pasa al promedio ponderado entre lo
// que había y lo que entra; los precios salen del promedio, no del costo de
// la última compra.
func TestReceivePurchase_CostoPromedioPonderado(t *testing.T) {
	env := newPurchasesEnv(t)
	repos := env.store.Repos()
	require.NoError(t, repos.Products.Create(&entity.Product{
		ID: "p2", Code: "C-p2", Name: "Producto p2",
		Cost: decimal.NewFromInt(100), Price: decimal.NewFromInt(135), Active: true,
	}))
	require.NoError(t, repos.Inventory.Ensure("p2", whMain))
	rec, err := repos.Inventory.Get("p2", whMain)
	require.NoError(t, err)
	rec.Available = 10
	require.NoError(t, repos.Inventory.Update(rec))

	purchase, err := env.uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		Currency:   entity.CurrencyLocal,
		Items:      []dto.PurchaseItemRequest{{ProductID: "p2", Quantity: 5, UnitCost: decimal.NewFromInt(130)}},
	})
	require.NoError(t, err)

	_, err = env.uc.ReceivePurchase(context.Background(), purchase.ID, "", "u1")
	require.NoError(t, err)

	// (10*100 + 5*130) / 15 = 110.
	product, err := repos.Products.GetByID("p2")
	require.NoError(t, err)
	assert.True(t, product.Cost.Equal(decimal.NewFromInt(110)), "cost got %s", product.Cost)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("148.50")), "price got %s", product.Price)
	assert.True(t, product.PriceWholesale.Equal(decimal.NewFromInt(132)), "wholesale got %s", product.PriceWholesale)
}

func TestReceivePurchase_Inexistente(t *testing.T) {
	env := newPurchasesEnv(t)
	_, err := env.uc.ReceivePurchase(context.Background(), "no-existe", "", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
