package entity

import "time"

// InventoryRecord representa el stock de un producto en una bodega.
// Invariante: Available >= 0 y Reserved >= 0 en todo estado alcanzable.
// Available es stock vendible ya; Reserved es stock comprometido pero no despachado.
type InventoryRecord struct {
	ProductID   string
	WarehouseID string
	Available   int64
	Reserved    int64
	UpdatedAt   time.Time
}

// LowStockItem fila del reporte de stock bajo (consulta de solo lectura).
type LowStockItem struct {
	ProductID string
	Code      string
	Name      string
	Available int64
	MinStock  int64
}
