package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-ops/pkg/logger"
)

type ucEnv struct {
	store *memory.Store
	uc    *inventory.UseCase
}

func newUseCaseEnv(t *testing.T) *ucEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	engine := inventory.NewStockEngine(&memory.AuditLogRepo{}, logger.Nop())
	uc := inventory.NewUseCase(memory.NewTxRunner(store), engine,
		repos.Products, repos.Warehouses, repos.Inventory, repos.Movements)
	return &ucEnv{store: store, uc: uc}
}

func (e *ucEnv) seedWarehouse(t *testing.T, id, code string) {
	t.Helper()
	require.NoError(t, e.store.Repos().Warehouses.Create(&entity.Warehouse{
		ID: id, Code: code, Name: code, Active: true, CreatedAt: time.Now(),
	}))
}

func (e *ucEnv) seedProduct(t *testing.T, id string, minStock int64) {
	t.Helper()
	require.NoError(t, e.store.Repos().Products.Create(&entity.Product{
		ID: id, Code: "C-" + id, Name: "Producto " + id,
		Price: decimal.NewFromInt(100), MinStock: minStock, Active: true,
	}))
}

// Sin bodega explícita las operaciones caen en la bodega MAIN.
func TestAdjustStock_BodegaPorDefecto(t *testing.T) {
	env := newUseCaseEnv(t)
	env.seedWarehouse(t, "wh-main", entity.WarehouseCodeMain)
	env.seedWarehouse(t, "wh-2", "SUR")
	env.seedProduct(t, prodA, 0)

	require.NoError(t, env.uc.AdjustStock(context.Background(), prodA, 7, "conteo", "", "", "u1"))

	rec, err := env.store.Repos().Inventory.Get(prodA, "wh-main")
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.Available)
}

// Si no existe MAIN, la bodega por defecto es la primera activa.
func TestAdjustStock_FallbackPrimeraActiva(t *testing.T) {
	env := newUseCaseEnv(t)
	env.seedWarehouse(t, "wh-unica", "NORTE")
	env.seedProduct(t, prodA, 0)

	require.NoError(t, env.uc.AdjustStock(context.Background(), prodA, 3, "conteo", "", "", "u1"))

	rec, err := env.store.Repos().Inventory.Get(prodA, "wh-unica")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Available)
}

func TestAdjustStock_ProductoInexistente(t *testing.T) {
	env := newUseCaseEnv(t)
	env.seedWarehouse(t, "wh-main", entity.WarehouseCodeMain)

	err := env.uc.AdjustStock(context.Background(), "no-existe", 1, "conteo", "", "", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveStock_SinBodegas(t *testing.T) {
	env := newUseCaseEnv(t)
	env.seedProduct(t, prodA, 0)

	err := env.uc.ReserveStock(context.Background(), prodA, 1, "", "", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListBelowMinimum(t *testing.T) {
	env := newUseCaseEnv(t)
	env.seedWarehouse(t, "wh-main", entity.WarehouseCodeMain)
	env.seedProduct(t, "p-bajo", 10)
	env.seedProduct(t, "p-ok", 5)
	env.seedProduct(t, "p-sin-minimo", 0)

	require.NoError(t, env.uc.AdjustStock(context.Background(), "p-bajo", 4, "conteo", "", "", "u1"))
	require.NoError(t, env.uc.AdjustStock(context.Background(), "p-ok", 9, "conteo", "", "", "u1"))

	items, err := env.uc.ListBelowMinimum(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p-bajo", items[0].ProductID)
	assert.Equal(t, int64(4), items[0].Available)
	assert.Equal(t, int64(10), items[0].MinStock)
}

func TestListMovements_Filtros(t *testing.T) {
	env := newUseCaseEnv(t)
	env.seedWarehouse(t, "wh-main", entity.WarehouseCodeMain)
	env.seedProduct(t, prodA, 0)
	env.seedProduct(t, "prod-b", 0)

	require.NoError(t, env.uc.AdjustStock(context.Background(), prodA, 5, "conteo", "", "", "u1"))
	require.NoError(t, env.uc.AdjustStock(context.Background(), "prod-b", 2, "conteo", "", "", "u1"))
	require.NoError(t, env.uc.AdjustStock(context.Background(), prodA, -1, "rotura", "", "", "u1"))

	movs, err := env.uc.ListMovements(context.Background(), entity.MovementFilter{ProductID: prodA}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	movs, err = env.uc.ListMovements(context.Background(), entity.MovementFilter{Type: entity.MovementTypeOut}, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, prodA, movs[0].ProductID)
}
