package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retail-ops/internal/domain"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación de CartRepository sobre PostgreSQL.
// Un carrito por cliente (unique en client_id).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador de carritos.
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

func scanCart(row pgx.Row) (*entity.Cart, error) {
	var c entity.Cart
	err := row.Scan(&c.ID, &c.ClientID, &c.UpdatedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreate devuelve el carrito del cliente, creándolo vacío si no existe.
// El upsert resuelve la carrera entre dos primeros accesos concurrentes.
func (r *CartRepo) GetOrCreate(clientID string) (*entity.Cart, error) {
	now := time.Now()
	query := `
		INSERT INTO carts (id, client_id, updated_at, created_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (client_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, client_id, updated_at, created_at`
	c, err := scanCart(r.q.QueryRow(context.Background(), query, uuid.NewString(), clientID, now))
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return c, nil
}

// GetForUpdate bloquea la fila del carrito del cliente; nil si no existe.
func (r *CartRepo) GetForUpdate(clientID string) (*entity.Cart, error) {
	query := `SELECT id, client_id, updated_at, created_at FROM carts WHERE client_id = $1 FOR UPDATE`
	c, err := scanCart(r.q.QueryRow(context.Background(), query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: carrito de cliente %s", domain.ErrConflict, clientID)
		}
		return nil, fmt.Errorf("get cart for update: %w", err)
	}
	return c, nil
}

// AddItem agrega una línea o acumula cantidad si el producto ya está en el carrito.
func (r *CartRepo) AddItem(item *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.CartID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	_, err = r.q.Exec(context.Background(), `UPDATE carts SET updated_at = now() WHERE id = $1`, item.CartID)
	if err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}

func (r *CartRepo) listItems(cartID, suffix string) ([]*entity.CartItem, error) {
	query := `SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY id` + suffix
	rows, err := r.q.Query(context.Background(), query, cartID)
	if err != nil {
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: líneas de carrito %s", domain.ErrConflict, cartID)
		}
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	var items []*entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListItemsForUpdate bloquea y devuelve las líneas del carrito.
func (r *CartRepo) ListItemsForUpdate(cartID string) ([]*entity.CartItem, error) {
	return r.listItems(cartID, " FOR UPDATE")
}

// ListItems devuelve las líneas del carrito sin bloquear.
func (r *CartRepo) ListItems(cartID string) ([]*entity.CartItem, error) {
	return r.listItems(cartID, "")
}

// Clear vacía el carrito (se llama al cerrar el checkout).
func (r *CartRepo) Clear(cartID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	_, err = r.q.Exec(context.Background(), `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
