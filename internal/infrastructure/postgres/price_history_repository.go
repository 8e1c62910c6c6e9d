package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo implementación de PriceHistoryRepository. Solo append.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador del historial de precios.
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create inserta un registro de historial de precios.
func (r *PriceHistoryRepo) Create(h *entity.PriceHistory) error {
	query := `
		INSERT INTO price_history (id, product_id, cost, price, price_wholesale, fx_rate, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		h.ID, h.ProductID, h.Cost, h.Price, h.PriceWholesale, h.FxRate, h.Source, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("create price history: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto, más reciente primero.
func (r *PriceHistoryRepo) ListByProduct(productID string, limit int) ([]*entity.PriceHistory, error) {
	query := `
		SELECT id, product_id, cost, price, price_wholesale, fx_rate, source, created_at
		FROM price_history WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Cost, &h.Price, &h.PriceWholesale, &h.FxRate, &h.Source, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
