package entity

import "time"

// Código de la bodega principal; se usa como fallback al resolver la bodega por defecto.
const WarehouseCodeMain = "MAIN"

// Warehouse representa una bodega o depósito donde se almacena inventario.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
