package repository

import (
	"time"

	"github.com/tu-usuario/retail-ops/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras y su detalle.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera: es lo que hace idempotente la recepción
	// ante reintentos concurrentes.
	GetForUpdate(id string) (*entity.Purchase, error)
	ListItems(purchaseID string) ([]*entity.PurchaseItem, error)
	List(limit, offset int) ([]*entity.Purchase, error)
	MarkReceived(id string, receivedAt time.Time) error
}
