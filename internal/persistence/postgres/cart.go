package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
)

// CartRepository provides Postgres-backed persistence for cart lines.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository constructs a CartRepository.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

const cartColumns = `ci.cart_item_id, ci.user_id, ci.product_id, ci.quantity, ci.created_at`

// ListForUser returns the user's cart lines with products, newest first.
func (r *CartRepository) ListForUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	const query = `SELECT ` + cartColumns + `, ` + productColumns + `
        FROM cart_items ci
        JOIN products p ON p.product_id = ci.product_id
        JOIN categories c ON c.category_id = p.category_id
        WHERE ci.user_id=$1
        ORDER BY ci.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Upsert inserts the line or increments the quantity of the existing
// (user, product) line.
func (r *CartRepository) Upsert(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	const stmt = `INSERT INTO cart_items (cart_item_id, user_id, product_id, quantity, created_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT ON CONSTRAINT cart_items_user_product_key
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
        RETURNING cart_item_id`

	var id string
	if err := r.pool.QueryRow(ctx, stmt, item.ID, item.UserID, item.ProductID, item.Quantity, item.CreatedAt).Scan(&id); err != nil {
		return nil, err
	}
	return r.get(ctx, item.UserID, id)
}

// UpdateQuantity sets the quantity on a user-owned line; nil when absent.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error) {
	const stmt = `UPDATE cart_items SET quantity=$3 WHERE cart_item_id=$1 AND user_id=$2`

	tag, err := r.pool.Exec(ctx, stmt, itemID, userID, quantity)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.get(ctx, userID, itemID)
}

// Delete removes a user-owned line, reporting whether a row existed.
func (r *CartRepository) Delete(ctx context.Context, userID, itemID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_item_id=$1 AND user_id=$2`, itemID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Clear removes every line for the user.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

func (r *CartRepository) get(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	const query = `SELECT ` + cartColumns + `, ` + productColumns + `
        FROM cart_items ci
        JOIN products p ON p.product_id = ci.product_id
        JOIN categories c ON c.category_id = p.category_id
        WHERE ci.cart_item_id=$1 AND ci.user_id=$2`

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	var p domain.Product
	var c domain.Category
	err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
		&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt,
		&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	item.Product = &p
	return &item, nil
}
