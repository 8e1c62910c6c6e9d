package dto

import "time"

// AdjustStockRequest ajuste manual: cantidad positiva entra, negativa sale.
type AdjustStockRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	Reason      string `json:"reason"`
	Reference   string `json:"reference"`
	WarehouseID string `json:"warehouse_id"` // vacío = bodega por defecto
}

// ReserveStockRequest reserva o liberación de stock.
type ReserveStockRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	Reference   string `json:"reference"`
	WarehouseID string `json:"warehouse_id"`
}

// TransferStockRequest transferencia entre bodegas.
type TransferStockRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Reason          string `json:"reason"`
	Reference       string `json:"reference"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason"`
	Reference   string    `json:"reference"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockResponse stock de un producto en una bodega.
type StockResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Available   int64  `json:"available"`
	Reserved    int64  `json:"reserved"`
}

// LowStockResponse fila del reporte de stock bajo.
type LowStockResponse struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Available int64  `json:"available"`
	MinStock  int64  `json:"min_stock"`
}
