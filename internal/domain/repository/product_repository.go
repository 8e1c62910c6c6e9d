package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByIDs carga varios productos en una sola consulta (evita N viajes).
	GetByIDs(ids []string) (map[string]*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (checkout, recepción de compra).
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdatePricing(productID string, cost, price, priceWholesale decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
}
