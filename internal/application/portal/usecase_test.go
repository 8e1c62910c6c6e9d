package portal_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-ops/internal/application/dto"
	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/portal"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-ops/pkg/logger"
)

const (
	clientID = "cli-1"
	whMain   = "wh-main"
)

type portalEnv struct {
	store *memory.Store
	uc    *portal.UseCase
}

func newPortalEnv(t *testing.T) *portalEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	engine := inventory.NewStockEngine(&memory.AuditLogRepo{}, logger.Nop())
	uc := portal.NewUseCase(memory.NewTxRunner(store), engine,
		repos.Clients, repos.Products, repos.Warehouses, repos.Carts)

	require.NoError(t, repos.Warehouses.Create(&entity.Warehouse{
		ID: whMain, Code: entity.WarehouseCodeMain, Name: "Principal", Active: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, repos.Clients.Create(&entity.Client{ID: clientID, Name: "Cliente Uno", Active: true}))
	return &portalEnv{store: store, uc: uc}
}

func (e *portalEnv) seedProduct(t *testing.T, id string, price, stock int64) {
	t.Helper()
	repos := e.store.Repos()
	require.NoError(t, repos.Products.Create(&entity.Product{
		ID: id, Code: "C-" + id, Name: "Producto " + id,
		Price: decimal.NewFromInt(price), Active: true,
	}))
	require.NoError(t, repos.Inventory.Ensure(id, whMain))
	rec, err := repos.Inventory.Get(id, whMain)
	require.NoError(t, err)
	rec.Available = stock
	require.NoError(t, repos.Inventory.Update(rec))
}

func (e *portalEnv) available(t *testing.T, productID string) int64 {
	t.Helper()
	rec, err := e.store.Repos().Inventory.Get(productID, whMain)
	require.NoError(t, err)
	return rec.Available
}

func TestGetCart_CreaVacio(t *testing.T) {
	env := newPortalEnv(t)
	cart, err := env.uc.GetCart(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, clientID, cart.ClientID)
	assert.Empty(t, cart.Items)
}

func TestAddItem_AcumulaCantidad(t *testing.T) {
	env := newPortalEnv(t)
	env.seedProduct(t, "p1", 100, 10)

	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p1", Quantity: 2}))
	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p1", Quantity: 3}))

	cart, err := env.uc.GetCart(context.Background(), clientID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].Quantity)
}

func TestAddItem_ProductoInactivo(t *testing.T) {
	env := newPortalEnv(t)
	require.NoError(t, env.store.Repos().Products.Create(&entity.Product{
		ID: "p-off", Code: "C-off", Name: "Descatalogado", Price: decimal.NewFromInt(10), Active: false,
	}))

	err := env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p-off", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckout_TomaPrecioVigenteYVaciaCarrito(t *testing.T) {
	env := newPortalEnv(t)
	env.seedProduct(t, "p1", 100, 10)
	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p1", Quantity: 2}))

	// El precio cambia después de armar el carrito: el checkout debe usar el nuevo.
	require.NoError(t, env.store.Repos().Products.UpdatePricing("p1",
		decimal.NewFromInt(80), decimal.NewFromInt(150), decimal.NewFromInt(120)))

	sale, err := env.uc.Checkout(context.Background(), clientID)
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(decimal.NewFromInt(300)), "total = 2*150 (precio vigente), got %s", sale.Total)
	assert.True(t, sale.Net.Equal(sale.Total), "el checkout no aplica descuentos ni impuestos")
	assert.Equal(t, whMain, sale.WarehouseID)
	assert.Equal(t, int64(8), env.available(t, "p1"))

	// Carrito vacío después del checkout.
	cart, err := env.uc.GetCart(context.Background(), clientID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Salida en el libro referenciando la venta.
	movs, err := env.store.Repos().Movements.List(entity.MovementFilter{Type: entity.MovementTypeOut}, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "VENTA "+sale.ID, movs[0].Reference)
}

// El checkout bloquea el inventario en orden ascendente de producto, sin
// importar en qué orden se cargó el carrito.
func TestCheckout_BloqueaProductosEnOrden(t *testing.T) {
	env := newPortalEnv(t)
	env.seedProduct(t, "p1", 100, 10)
	env.seedProduct(t, "p2", 50, 10)
	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p2", Quantity: 1}))
	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p1", Quantity: 1}))

	env.store.ResetLockOrder()
	_, err := env.uc.Checkout(context.Background(), clientID)
	require.NoError(t, err)

	order := env.store.LockOrder()
	require.GreaterOrEqual(t, len(order), 2)
	assert.Equal(t, "p1|"+whMain, order[0])
	assert.Equal(t, "p2|"+whMain, order[1])
}

func TestCheckout_CarritoVacio(t *testing.T) {
	env := newPortalEnv(t)

	// Sin carrito creado.
	_, err := env.uc.Checkout(context.Background(), clientID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Con carrito creado pero sin líneas.
	_, err = env.uc.GetCart(context.Background(), clientID)
	require.NoError(t, err)
	_, err = env.uc.Checkout(context.Background(), clientID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un checkout sin stock suficiente falla completo: el carrito queda intacto
// y no se descuenta ninguna línea.
func TestCheckout_FallaDejaCarritoIntacto(t *testing.T) {
	env := newPortalEnv(t)
	env.seedProduct(t, "p1", 100, 10)
	env.seedProduct(t, "p2", 50, 1)
	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p1", Quantity: 2}))
	require.NoError(t, env.uc.AddItem(context.Background(), clientID, dto.AddCartItemRequest{ProductID: "p2", Quantity: 5}))

	_, err := env.uc.Checkout(context.Background(), clientID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), env.available(t, "p1"))
	assert.Equal(t, int64(1), env.available(t, "p2"))

	cart, err := env.uc.GetCart(context.Background(), clientID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2, "el carrito sobrevive al checkout fallido")

	salesList, err := env.store.Repos().Sales.List("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, salesList)
}

func TestCheckout_ClienteInexistente(t *testing.T) {
	env := newPortalEnv(t)
	_, err := env.uc.Checkout(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
