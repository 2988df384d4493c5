package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCartEmpty aborts checkout when the cart holds no lines.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrOrderNotFound covers missing orders and orders owned by another
	// user; callers must not learn which.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidOrderStatus rejects statuses outside the lifecycle enum.
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OrderStatus enumerates the fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status belongs to the lifecycle enum. Any valid
// status may overwrite any other; no transition graph is enforced.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a checked-out cart. Only Status is
// mutated after creation.
type Order struct {
	ID              string
	UserID          string
	TotalAmount     float64
	Status          OrderStatus
	ShippingAddress string
	Items           []OrderItem
	CreatedAt       time.Time
}

// OrderItem freezes product id, quantity and unit price at order creation,
// decoupled from the live product row.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     float64
	Product   *Product
}

// BuildOrder converts cart lines into an immutable order snapshot. It is a
// pure function; the repository applies it inside the checkout transaction
// so the snapshot and the cart clear commit together.
func BuildOrder(userID, shippingAddress string, items []CartItem, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrCartEmpty
	}

	order := Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		TotalAmount:     CartTotal(items),
		Status:          OrderStatusPending,
		ShippingAddress: shippingAddress,
		Items:           make([]OrderItem, 0, len(items)),
		CreatedAt:       now,
	}

	for _, item := range items {
		line := OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   item.Product,
		}
		if item.Product != nil {
			line.Price = item.Product.Price
		}
		order.Items = append(order.Items, line)
	}
	return order, nil
}

// OrderPage bundles an order listing with pagination totals.
type OrderPage struct {
	Orders []Order
	Page   int
	Limit  int
	Total  int
}

// OrderRepository captures persistence operations for orders.
type OrderRepository interface {
	// PlaceFromCart locks the user's cart lines, builds the order through
	// build, persists order plus items and clears the cart, all inside one
	// transaction. Errors returned by build (ErrCartEmpty included)
	// propagate unchanged and roll everything back.
	PlaceFromCart(ctx context.Context, userID string, build func(items []CartItem) (Order, error)) (*Order, error)
	List(ctx context.Context, userID string, offset, limit int) ([]Order, int, error)
	// Get returns nil when the order does not exist for the user.
	Get(ctx context.Context, userID, orderID string) (*Order, error)
	// UpdateStatus overwrites the status of a user-owned order; returns
	// nil when the order does not exist for the user.
	UpdateStatus(ctx context.Context, userID, orderID string, status OrderStatus) (*Order, error)
}

// OrderService converts carts to orders and tracks their lifecycle.
type OrderService struct {
	repo OrderRepository
	now  func() time.Time
}

// NewOrderService constructs an OrderService.
func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo, now: time.Now}
}

// Place atomically snapshots the cart into a pending order and empties the
// cart.
func (s *OrderService) Place(ctx context.Context, userID, shippingAddress string) (*Order, error) {
	now := s.now().UTC()
	return s.repo.PlaceFromCart(ctx, userID, func(items []CartItem) (Order, error) {
		return BuildOrder(userID, shippingAddress, items, now)
	})
}

// List returns the user's orders newest first.
func (s *OrderService) List(ctx context.Context, userID string, page, limit int) (*OrderPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	orders, total, err := s.repo.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: orders, Page: page, Limit: limit, Total: total}, nil
}

// Get fetches one order owned by the user.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*Order, error) {
	order, err := s.repo.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus overwrites the order status with an enum-validated value.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID string, status OrderStatus) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.repo.UpdateStatus(ctx, userID, orderID, status)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
