package repository

import "github.com/tu-usuario/retail-ops/internal/domain/entity"

// CartRepository define el puerto del carrito del portal de clientes.
type CartRepository interface {
	// GetOrCreate devuelve el carrito del cliente, creándolo vacío si no existe.
	GetOrCreate(clientID string) (*entity.Cart, error)
	// GetForUpdate bloquea la fila del carrito del cliente; nil si no existe.
	GetForUpdate(clientID string) (*entity.Cart, error)
	AddItem(item *entity.CartItem) error
	// ListItemsForUpdate bloquea y devuelve las líneas del carrito.
	ListItemsForUpdate(cartID string) ([]*entity.CartItem, error)
	ListItems(cartID string) ([]*entity.CartItem, error)
	Clear(cartID string) error
}
