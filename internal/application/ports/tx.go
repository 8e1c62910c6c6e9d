// Package ports define los puertos transversales de la capa de aplicación.
package ports

import (
	"context"

	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción. Todo lo que un
// caso de uso haga a través de este bundle confirma o revierte como unidad.
type Repos struct {
	Inventory    repository.InventoryRepository
	Movements    repository.StockMovementRepository
	Products     repository.ProductRepository
	Warehouses   repository.WarehouseRepository
	Clients      repository.ClientRepository
	Suppliers    repository.SupplierRepository
	Sales        repository.SaleRepository
	Purchases    repository.PurchaseRepository
	Carts        repository.CartRepository
	PriceHistory repository.PriceHistoryRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Si fn retorna error se hace Rollback; si no, Commit.
// Garantiza atomicidad para el motor de stock y las transacciones de órdenes.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Repos) error) error
}
