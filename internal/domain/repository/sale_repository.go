package repository

import "github.com/tu-usuario/retail-ops/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y su detalle.
// La cabecera solo la muta su flujo dueño; el motor de stock nunca la toca.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera (entrega/cancelación).
	GetForUpdate(id string) (*entity.Sale, error)
	ListItems(saleID string) ([]*entity.SaleItem, error)
	List(clientID string, limit, offset int) ([]*entity.Sale, error)
	UpdateDeliveryStatus(id, status string) error
	UpdatePaymentStatus(id, status string) error
}
