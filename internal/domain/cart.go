package domain

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrCartItemNotFound is returned when a cart line does not exist or
// belongs to another user.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartItem is one mutable staging line, unique per (user, product).
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	Product   *Product
	CreatedAt time.Time
}

// Cart is a user's current staging collection with its running total.
type Cart struct {
	Items []CartItem
	Total float64
	Count int
}

// Round2 rounds a currency amount to two decimals, half away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CartTotal sums price x quantity across lines, rounded to cents.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}
	return Round2(total)
}

// CartRepository captures persistence operations for cart lines.
type CartRepository interface {
	// ListForUser returns the user's cart lines with products, newest first.
	ListForUser(ctx context.Context, userID string) ([]CartItem, error)
	// Upsert adds the line or increments the quantity of an existing
	// (user, product) line, returning the resulting row.
	Upsert(ctx context.Context, item CartItem) (*CartItem, error)
	// UpdateQuantity sets the quantity of a user-owned line; returns nil
	// when the line does not exist for the user.
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*CartItem, error)
	// Delete removes a user-owned line; reports whether a row was removed.
	Delete(ctx context.Context, userID, itemID string) (bool, error)
	// Clear removes every line for the user.
	Clear(ctx context.Context, userID string) error
}

// CartService maintains a user's staging cart.
type CartService struct {
	repo    CartRepository
	catalog CatalogRepository
	now     func() time.Time
}

// NewCartService constructs a CartService.
func NewCartService(repo CartRepository, catalog CatalogRepository) *CartService {
	return &CartService{repo: repo, catalog: catalog, now: time.Now}
}

// Get returns the cart with its computed total.
func (s *CartService) Get(ctx context.Context, userID string) (*Cart, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Cart{Items: items, Total: CartTotal(items), Count: len(items)}, nil
}

// Add puts a product in the cart, incrementing quantity when the line
// already exists. Quantity defaults to one.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	item := CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: s.now().UTC(),
	}
	return s.repo.Upsert(ctx, item)
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		removed, err := s.repo.Delete(ctx, userID, itemID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, ErrCartItemNotFound
		}
		return nil, nil
	}

	item, err := s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

// Remove deletes one line from the cart.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	removed, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
