package entity

import "time"

// Cart carrito del portal de clientes; a lo sumo uno por cliente.
type Cart struct {
	ID        string
	ClientID  string
	UpdatedAt time.Time
	CreatedAt time.Time
}

// CartItem línea del carrito. El precio NO se guarda aquí: en el checkout
// se toma siempre el precio vigente del producto.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int64
}
