package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Ensure crea el registro en cero si no existe. Upsert puro: sin carrera
// entre el chequeo de existencia y el insert.
func (r *InventoryRepo) Ensure(productID, warehouseID string) error {
	query := `
		INSERT INTO inventory_records (product_id, warehouse_id, available, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, productID, warehouseID)
	if err != nil {
		return fmt.Errorf("ensure inventory record: %w", err)
	}
	return nil
}

// Get obtiene el registro de inventario; cero/cero si no existe.
func (r *InventoryRepo) Get(productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, warehouse_id, available, reserved, updated_at
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&rec.ProductID, &rec.WarehouseID, &rec.Available, &rec.Reserved, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// Contención de locks se traduce a ErrConflict para que el caller decida reintentar.
func (r *InventoryRepo) GetForUpdate(productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, warehouse_id, available, reserved, updated_at
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&rec.ProductID, &rec.WarehouseID, &rec.Available, &rec.Reserved, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: inventario %s/%s", domain.ErrConflict, productID, warehouseID)
		}
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return &rec, nil
}

// Update persiste las cantidades del registro.
func (r *InventoryRepo) Update(rec *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records
		SET available = $3, reserved = $4, updated_at = $5
		WHERE product_id = $1 AND warehouse_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		rec.ProductID, rec.WarehouseID, rec.Available, rec.Reserved, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	return nil
}

// ListByProduct registros de inventario de un producto en todas las bodegas.
func (r *InventoryRepo) ListByProduct(productID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, warehouse_id, available, reserved, updated_at
		FROM inventory_records WHERE product_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.WarehouseID, &rec.Available, &rec.Reserved, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListBelowMinimum productos activos con disponible total bajo el mínimo.
// Sin bloqueo: snapshot eventual es suficiente para el componente de alarmas.
func (r *InventoryRepo) ListBelowMinimum(limit int) ([]*entity.LowStockItem, error) {
	query := `
		SELECT p.id, p.code, p.name, COALESCE(SUM(i.available), 0) AS available, p.min_stock
		FROM products p
		LEFT JOIN inventory_records i ON i.product_id = p.id
		WHERE p.active = TRUE AND p.min_stock > 0
		GROUP BY p.id, p.code, p.name, p.min_stock
		HAVING COALESCE(SUM(i.available), 0) < p.min_stock
		ORDER BY p.min_stock - COALESCE(SUM(i.available), 0) DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	defer rows.Close()
	var list []*entity.LowStockItem
	for rows.Next() {
		var item entity.LowStockItem
		if err := rows.Scan(&item.ProductID, &item.Code, &item.Name, &item.Available, &item.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
