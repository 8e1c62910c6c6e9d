package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/ports"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/infrastructure/memory"
	"github.com/tu-usuario/retail-ops/pkg/logger"
)

const (
	prodA = "prod-a"
	whA   = "wh-a"
	whB   = "wh-b"
)

type engineEnv struct {
	store  *memory.Store
	tx     *memory.TxRunner
	engine *inventory.StockEngine
	audit  *memory.AuditLogRepo
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()
	store := memory.NewStore()
	audit := &memory.AuditLogRepo{}
	return &engineEnv{
		store:  store,
		tx:     memory.NewTxRunner(store),
		engine: inventory.NewStockEngine(audit, logger.Nop()),
		audit:  audit,
	}
}

// run ejecuta una operación del motor dentro de una transacción.
func (e *engineEnv) run(t *testing.T, fn func(r *ports.Repos) error) error {
	t.Helper()
	return e.tx.Run(context.Background(), fn)
}

func (e *engineEnv) stock(t *testing.T, productID, warehouseID string) *entity.InventoryRecord {
	t.Helper()
	rec, err := e.store.Repos().Inventory.Get(productID, warehouseID)
	require.NoError(t, err)
	return rec
}

func (e *engineEnv) movements(t *testing.T) []*entity.StockMovement {
	t.Helper()
	list, err := e.store.Repos().Movements.List(entity.MovementFilter{}, 1000, 0)
	require.NoError(t, err)
	return list
}

func TestAddRemoveStock_Escenario(t *testing.T) {
	env := newEngineEnv(t)

	// Entran 10, salen 4 y luego 3: quedan 3.
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 10, Reason: "compra"})
	}))
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.RemoveStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 4, Reason: "venta"})
	}))
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.RemoveStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 3, Reason: "venta"})
	}))

	rec := env.stock(t, prodA, whA)
	assert.Equal(t, int64(3), rec.Available)
	assert.Equal(t, int64(0), rec.Reserved)

	// Sacar 4 con 3 disponibles debe fallar sin mutar nada.
	err := env.run(t, func(r *ports.Repos) error {
		return env.engine.RemoveStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 4, Reason: "venta"})
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec = env.stock(t, prodA, whA)
	assert.Equal(t, int64(3), rec.Available, "un intento fallido no debe cambiar el disponible")

	// El libro reconstruye el stock: entradas - salidas = disponible + reservado.
	var sum int64
	for _, m := range env.movements(t) {
		assert.Positive(t, m.Quantity, "las cantidades del libro son siempre positivas")
		if m.Type == entity.MovementTypeIn {
			sum += m.Quantity
		} else {
			sum -= m.Quantity
		}
	}
	assert.Equal(t, rec.Available+rec.Reserved, sum)
	assert.Len(t, env.movements(t), 3, "el intento fallido no deja movimiento")
}

func TestAddStock_CantidadInvalida(t *testing.T) {
	env := newEngineEnv(t)
	for _, qty := range []int64{0, -5} {
		err := env.run(t, func(r *ports.Repos) error {
			return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: qty})
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestReserveRelease_RoundTrip(t *testing.T) {
	env := newEngineEnv(t)
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 10, Reason: "compra"})
	}))

	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.ReserveStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 6})
	}))
	rec := env.stock(t, prodA, whA)
	assert.Equal(t, int64(4), rec.Available)
	assert.Equal(t, int64(6), rec.Reserved)

	// Reservar no escribe en el libro: el total en bodega no cambió.
	assert.Len(t, env.movements(t), 1)

	// Reservar más de lo disponible falla.
	err := env.run(t, func(r *ports.Repos) error {
		return env.engine.ReserveStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 5})
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Liberar más de lo reservado falla con estado inválido.
	err = env.run(t, func(r *ports.Repos) error {
		return env.engine.ReleaseReservation(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 7})
	})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	// Round trip completo: liberar lo reservado vuelve al estado original.
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.ReleaseReservation(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 6})
	}))
	rec = env.stock(t, prodA, whA)
	assert.Equal(t, int64(10), rec.Available)
	assert.Equal(t, int64(0), rec.Reserved)
}

func TestAdjustStock(t *testing.T) {
	env := newEngineEnv(t)
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 5, Reason: "compra"})
	}))

	// Ajuste negativo descuenta con el valor absoluto.
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AdjustStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: -2, Reason: "rotura"})
	}))
	assert.Equal(t, int64(3), env.stock(t, prodA, whA).Available)

	// El motivo queda prefijado como ajuste.
	movs := env.movements(t)
	assert.Equal(t, "ajuste: rotura", movs[0].Reason)
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)
	assert.Equal(t, int64(2), movs[0].Quantity)

	// Ajuste en cero es no-op: ni error ni movimiento.
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AdjustStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 0, Reason: "nada"})
	}))
	assert.Len(t, env.movements(t), 2)

	// Ajuste negativo mayor que el disponible falla.
	err := env.run(t, func(r *ports.Repos) error {
		return env.engine.AdjustStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: -10, Reason: "rotura"})
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTransferStock(t *testing.T) {
	env := newEngineEnv(t)
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 8, Reason: "compra"})
	}))

	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.TransferStock(r, inventory.TransferInput{
			ProductID: prodA, FromWarehouseID: whA, ToWarehouseID: whB,
			Quantity: 5, Reference: "TRF 1",
		})
	}))

	assert.Equal(t, int64(3), env.stock(t, prodA, whA).Available)
	assert.Equal(t, int64(5), env.stock(t, prodA, whB).Available)

	// Dos movimientos con la misma referencia: salida en origen, entrada en destino.
	movs, err := env.store.Repos().Movements.List(entity.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	var out, in *entity.StockMovement
	for _, m := range movs {
		if m.Reference != "TRF 1" {
			continue
		}
		switch m.Type {
		case entity.MovementTypeOut:
			out = m
		case entity.MovementTypeIn:
			in = m
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, whA, out.WarehouseID)
	assert.Equal(t, whB, in.WarehouseID)
	assert.Equal(t, out.Quantity, in.Quantity)
	assert.Equal(t, "transferencia", out.Reason)
}

func TestTransferStock_Validaciones(t *testing.T) {
	env := newEngineEnv(t)

	err := env.run(t, func(r *ports.Repos) error {
		return env.engine.TransferStock(r, inventory.TransferInput{
			ProductID: prodA, FromWarehouseID: whA, ToWarehouseID: whA, Quantity: 1,
		})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "misma bodega origen y destino")

	// Sin stock en origen: falla y no queda nada a medias.
	err = env.run(t, func(r *ports.Repos) error {
		return env.engine.TransferStock(r, inventory.TransferInput{
			ProductID: prodA, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 3,
		})
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), env.stock(t, prodA, whA).Available)
	assert.Equal(t, int64(0), env.stock(t, prodA, whB).Available)
	assert.Empty(t, env.movements(t))
}

// Las transferencias bloquean las dos filas en orden ascendente sin importar
// la dirección; transferencias cruzadas piden los locks en el mismo orden.
func TestTransferStock_OrdenDeBloqueo(t *testing.T) {
	env := newEngineEnv(t)
	for _, wh := range []string{whA, whB} {
		require.NoError(t, env.run(t, func(r *ports.Repos) error {
			return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: wh, Quantity: 10, Reason: "compra"})
		}))
	}
	env.store.ResetLockOrder()

	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.TransferStock(r, inventory.TransferInput{
			ProductID: prodA, FromWarehouseID: whB, ToWarehouseID: whA, Quantity: 1,
		})
	}))
	orderBA := env.store.LockOrder()

	env.store.ResetLockOrder()
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.TransferStock(r, inventory.TransferInput{
			ProductID: prodA, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 1,
		})
	}))
	orderAB := env.store.LockOrder()

	assert.Equal(t, orderAB, orderBA, "A→B y B→A deben bloquear en el mismo orden")
	require.Len(t, orderAB, 2)
	assert.Less(t, orderAB[0], orderAB[1], "los bloqueos van en orden ascendente")
}

// La auditoría es best-effort: si el sink falla, la operación igual se aplica.
func TestAudit_BestEffort(t *testing.T) {
	env := newEngineEnv(t)
	env.audit.FailOn = "entrada_stock"

	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 5, Reason: "compra", UserID: "u1"})
	}))
	assert.Equal(t, int64(5), env.stock(t, prodA, whA).Available)
	assert.Empty(t, env.audit.Actions())

	env.audit.FailOn = ""
	require.NoError(t, env.run(t, func(r *ports.Repos) error {
		return env.engine.ReserveStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: whA, Quantity: 2, UserID: "u1"})
	}))
	assert.Equal(t, []string{"reservar_stock"}, env.audit.Actions())
}

// Transferencias concurrentes en direcciones opuestas terminan sin abrazo
// mortal y con el total conservado.
func TestTransferStock_CruzadasConcurrentes(t *testing.T) {
	env := newEngineEnv(t)
	for _, wh := range []string{whA, whB} {
		require.NoError(t, env.run(t, func(r *ports.Repos) error {
			return env.engine.AddStock(r, inventory.StockInput{ProductID: prodA, WarehouseID: wh, Quantity: 50, Reason: "compra"})
		}))
	}

	const rounds = 20
	errCh := make(chan error, 2*rounds)
	done := make(chan struct{}, 2)
	transfer := func(from, to string) {
		for i := 0; i < rounds; i++ {
			errCh <- env.run(t, func(r *ports.Repos) error {
				return env.engine.TransferStock(r, inventory.TransferInput{
					ProductID: prodA, FromWarehouseID: from, ToWarehouseID: to, Quantity: 1,
				})
			})
		}
		done <- struct{}{}
	}
	go transfer(whA, whB)
	go transfer(whB, whA)
	<-done
	<-done
	close(errCh)

	for err := range errCh {
		if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("error inesperado en transferencia: %v", err)
		}
	}
	total := env.stock(t, prodA, whA).Available + env.stock(t, prodA, whB).Available
	assert.Equal(t, int64(100), total, "las transferencias conservan el total")
}
