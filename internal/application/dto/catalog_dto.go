package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MinStock    int64           `json:"min_stock"`
}

// UpdateProductRequest modifica un producto. Campos vacíos o nil no cambian.
type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MinStock    *int64          `json:"min_stock"`
	Active      *bool           `json:"active"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Cost           decimal.Decimal `json:"cost"`
	Price          decimal.Decimal `json:"price"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	MinStock       int64           `json:"min_stock"`
	Active         bool            `json:"active"`
}

// CreateWarehouseRequest alta de bodega.
type CreateWarehouseRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// WarehouseResponse bodega.
type WarehouseResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
