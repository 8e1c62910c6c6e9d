package dto

// AddCartItemRequest agrega un producto al carrito del cliente.
// No lleva precio: el checkout siempre toma el precio vigente del producto.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CartResponse carrito del cliente.
type CartResponse struct {
	CartID   string             `json:"cart_id"`
	ClientID string             `json:"client_id"`
	Items    []CartItemResponse `json:"items"`
}
