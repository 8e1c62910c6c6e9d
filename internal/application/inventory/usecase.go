package inventory

import (
	"context"

	"github.com/tu-usuario/retail-ops/internal/application/ports"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

// UseCase expone las operaciones públicas de inventario: ajustes manuales,
// reservas, liberaciones, transferencias y las consultas del libro de
// movimientos y stock bajo. Cada mutación abre su propia transacción; los
// flujos compuestos (ventas, compras, checkout) usan el StockEngine
// directamente dentro de su tx.
type UseCase struct {
	txRunner      ports.TxRunner
	engine        *StockEngine
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	inventoryRepo repository.InventoryRepository
	movementRepo  repository.StockMovementRepository
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(
	txRunner ports.TxRunner,
	engine *StockEngine,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	inventoryRepo repository.InventoryRepository,
	movementRepo repository.StockMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
	}
}

// resolveWarehouse devuelve la bodega indicada o, si viene vacía, la bodega
// por defecto (modo global con bodega implícita).
func (uc *UseCase) resolveWarehouse(warehouseID string) (string, error) {
	if warehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(warehouseID)
		if err != nil {
			return "", err
		}
		if wh == nil || !wh.Active {
			return "", domain.ErrNotFound
		}
		return wh.ID, nil
	}
	wh, err := uc.warehouseRepo.GetDefault()
	if err != nil {
		return "", err
	}
	if wh == nil {
		return "", domain.ErrNotFound
	}
	return wh.ID, nil
}

// checkProduct valida que el producto exista.
func (uc *UseCase) checkProduct(productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureRecord crea el registro (producto, bodega) en cero si no existe.
func (uc *UseCase) EnsureRecord(ctx context.Context, productID, warehouseID string) error {
	if err := uc.checkProduct(productID); err != nil {
		return err
	}
	whID, err := uc.resolveWarehouse(warehouseID)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		return uc.engine.EnsureRecord(r, productID, whID)
	})
}

// AdjustStock corrección manual de stock; qty positiva entra, negativa sale,
// cero no hace nada.
func (uc *UseCase) AdjustStock(ctx context.Context, productID string, qty int64, reason, reference, warehouseID, userID string) error {
	if err := uc.checkProduct(productID); err != nil {
		return err
	}
	whID, err := uc.resolveWarehouse(warehouseID)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		return uc.engine.AdjustStock(r, StockInput{
			ProductID: productID, WarehouseID: whID,
			Quantity: qty, Reason: reason, Reference: reference, UserID: userID,
		})
	})
}

// ReserveStock aparta stock para un compromiso pendiente.
func (uc *UseCase) ReserveStock(ctx context.Context, productID string, qty int64, reference, warehouseID, userID string) error {
	if err := uc.checkProduct(productID); err != nil {
		return err
	}
	whID, err := uc.resolveWarehouse(warehouseID)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		return uc.engine.ReserveStock(r, StockInput{
			ProductID: productID, WarehouseID: whID,
			Quantity: qty, Reference: reference, UserID: userID,
		})
	})
}

// ReleaseReservation devuelve stock reservado al disponible.
func (uc *UseCase) ReleaseReservation(ctx context.Context, productID string, qty int64, reference, warehouseID, userID string) error {
	if err := uc.checkProduct(productID); err != nil {
		return err
	}
	whID, err := uc.resolveWarehouse(warehouseID)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		return uc.engine.ReleaseReservation(r, StockInput{
			ProductID: productID, WarehouseID: whID,
			Quantity: qty, Reference: reference, UserID: userID,
		})
	})
}

// TransferStock mueve stock entre dos bodegas como par atómico.
func (uc *UseCase) TransferStock(ctx context.Context, productID string, qty int64, fromWarehouseID, toWarehouseID, reason, reference, userID string) error {
	if err := uc.checkProduct(productID); err != nil {
		return err
	}
	if fromWarehouseID == "" || toWarehouseID == "" {
		return domain.ErrInvalidInput
	}
	for _, id := range []string{fromWarehouseID, toWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if wh == nil || !wh.Active {
			return domain.ErrNotFound
		}
	}
	return uc.txRunner.Run(ctx, func(r *ports.Repos) error {
		return uc.engine.TransferStock(r, TransferInput{
			ProductID: productID, FromWarehouseID: fromWarehouseID, ToWarehouseID: toWarehouseID,
			Quantity: qty, Reason: reason, Reference: reference, UserID: userID,
		})
	})
}

// ListMovements consulta paginada del libro de movimientos.
func (uc *UseCase) ListMovements(ctx context.Context, filter entity.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movementRepo.List(filter, limit, offset)
}

// GetStock devuelve los registros de inventario de un producto (todas las bodegas).
func (uc *UseCase) GetStock(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	if err := uc.checkProduct(productID); err != nil {
		return nil, err
	}
	return uc.inventoryRepo.ListByProduct(productID)
}

// ListBelowMinimum productos con disponible bajo el mínimo (consulta sin
// bloqueo; la consume el componente de alarmas).
func (uc *UseCase) ListBelowMinimum(ctx context.Context) ([]*entity.LowStockItem, error) {
	return uc.inventoryRepo.ListBelowMinimum(200)
}
