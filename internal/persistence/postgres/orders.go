package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
	"github.com/hukshh/fitchekk/internal/events"
	"github.com/hukshh/fitchekk/internal/observability"
)

// OrderRepository provides Postgres-backed persistence for orders.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs an OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// PlaceFromCart converts the user's cart into an order inside one
// transaction. Cart rows are locked first, so two concurrent checkouts for
// the same user serialize and the loser sees an empty cart.
func (r *OrderRepository) PlaceFromCart(ctx context.Context, userID string, build func(items []domain.CartItem) (domain.Order, error)) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const selectCart = `SELECT ` + cartColumns + `, ` + productColumns + `
        FROM cart_items ci
        JOIN products p ON p.product_id = ci.product_id
        JOIN categories c ON c.category_id = p.category_id
        WHERE ci.user_id=$1
        ORDER BY ci.created_at DESC
        FOR UPDATE OF ci`

	rows, err := tx.Query(ctx, selectCart, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	order, err := build(items)
	if err != nil {
		return nil, err
	}

	const insertOrder = `INSERT INTO orders (order_id, user_id, total_amount, status, shipping_address, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := tx.Exec(ctx, insertOrder, order.ID, order.UserID, order.TotalAmount, order.Status, order.ShippingAddress, order.CreatedAt); err != nil {
		return nil, err
	}

	const insertItem = `INSERT INTO order_items (order_item_id, order_id, product_id, quantity, price)
        VALUES ($1,$2,$3,$4,$5)`
	for _, line := range order.Items {
		if _, err := tx.Exec(ctx, insertItem, line.ID, line.OrderID, line.ProductID, line.Quantity, line.Price); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
		return nil, err
	}

	if err := insertEvent(ctx, tx, "order", order.ID, "order.placed", order.UserID, events.OrderPlaced{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		PlacedAt:    order.CreatedAt,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	observability.RecordOrderPlaced(order.CreatedAt)
	return &order, nil
}

const orderColumns = `order_id, user_id, total_amount, status, shipping_address, created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []domain.OrderItem{}
	return &o, nil
}

// List returns a page of the user's orders, newest first, with items.
func (r *OrderRepository) List(ctx context.Context, userID string, offset, limit int) ([]domain.Order, int, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
        WHERE user_id=$1
        ORDER BY created_at DESC
        OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	itemsByOrder, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if items, ok := itemsByOrder[orders[i].ID]; ok {
			orders[i].Items = items
		}
	}
	return orders, total, nil
}

// Get retrieves one order owned by the user, with items; nil otherwise.
func (r *OrderRepository) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1 AND user_id=$2`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	itemsByOrder, err := r.itemsForOrders(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	if items, ok := itemsByOrder[order.ID]; ok {
		order.Items = items
	}
	return order, nil
}

// UpdateStatus overwrites the status of a user-owned order; nil when the
// order does not exist for the user.
func (r *OrderRepository) UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	const stmt = `UPDATE orders SET status=$3 WHERE order_id=$1 AND user_id=$2`

	tag, err := r.pool.Exec(ctx, stmt, orderID, userID, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.Get(ctx, userID, orderID)
}

func (r *OrderRepository) itemsForOrders(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	const query = `SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.quantity, oi.price,
            ` + productColumns + `
        FROM order_items oi
        JOIN products p ON p.product_id = oi.product_id
        JOIN categories c ON c.category_id = p.category_id
        WHERE oi.order_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itemsByOrder := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		var p domain.Product
		var c domain.Category
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt,
			&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		p.Category = &c
		item.Product = &p
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	return itemsByOrder, rows.Err()
}
