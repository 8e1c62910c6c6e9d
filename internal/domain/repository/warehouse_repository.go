package repository

import "github.com/tu-usuario/retail-ops/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
	// GetDefault resuelve la bodega por defecto (modo global): la de código
	// MAIN, o la primera activa si no existe.
	GetDefault() (*entity.Warehouse, error)
}
