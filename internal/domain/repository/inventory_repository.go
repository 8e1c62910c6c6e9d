package repository

import "github.com/tu-usuario/retail-ops/internal/domain/entity"

// InventoryRepository define el puerto para los registros de inventario por
// (producto, bodega). Las mutaciones se usan dentro de transacciones.
type InventoryRepository interface {
	// Ensure crea el registro en cero si no existe (upsert puro, sin carrera
	// entre chequeo e insert). No genera movimiento.
	Ensure(productID, warehouseID string) error
	Get(productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Obligatorio antes de
	// cualquier chequeo-y-mutación de cantidades.
	GetForUpdate(productID, warehouseID string) (*entity.InventoryRecord, error)
	Update(rec *entity.InventoryRecord) error
	ListByProduct(productID string) ([]*entity.InventoryRecord, error)
	// ListBelowMinimum productos activos con disponible < stock mínimo.
	// Solo lectura, sin bloqueo; snapshot eventual es aceptable.
	ListBelowMinimum(limit int) ([]*entity.LowStockItem, error)
}
