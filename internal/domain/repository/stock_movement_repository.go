package repository

import "github.com/tu-usuario/retail-ops/internal/domain/entity"

// StockMovementRepository define el puerto del libro de movimientos.
// Solo inserta y consulta: los movimientos nunca se actualizan ni borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	List(filter entity.MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
}
