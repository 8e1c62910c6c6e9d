package entity

import "time"

// Client representa un cliente (comprador) del negocio.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier representa un proveedor de mercadería.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
