package repository

import "github.com/tu-usuario/retail-ops/internal/domain/entity"

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
}

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
}

// PriceHistoryRepository puerto del historial de precios (solo append).
type PriceHistoryRepository interface {
	Create(h *entity.PriceHistory) error
	ListByProduct(productID string, limit int) ([]*entity.PriceHistory, error)
}

// AuditLogRepository puerto de la bitácora de auditoría (best-effort).
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
}

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
