package entity

import "time"

// Tipos de movimiento de stock. Las reservas no generan movimiento:
// no cambian el total en bodega, solo lo reclasifican.
const (
	MovementTypeIn  = "entrada"
	MovementTypeOut = "salida"
)

// StockMovement es un hecho inmutable del libro de movimientos: nunca se
// actualiza ni se borra. El stock actual debe poder reconstruirse como
// suma de entradas menos salidas.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Type        string // entrada | salida
	Quantity    int64  // siempre positivo; el signo lo da Type
	Reason      string // compra, venta, ajuste: <nota>, cancelacion, transferencia...
	Reference   string // correlación, ej. "VENTA 123", "COMPRA 45"
	UserID      string // vacío = acción del sistema
	CreatedAt   time.Time
}

// MovementFilter filtros para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Type        string
	From        *time.Time
	To          *time.Time
}
