package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCategoryExists indicates the category name is already taken.
	ErrCategoryExists = errors.New("category already exists")
	// ErrProductNotFound is returned when a product cannot be located.
	ErrProductNotFound = errors.New("product not found")
)

// Category groups store products under a unique name.
type Category struct {
	ID           string
	Name         string
	Description  string
	ProductCount int
}

// Product is a catalog entry. Price is a two-decimal currency amount.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
	Category    *Category
	CreatedAt   time.Time
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ProductPage bundles a product listing with pagination totals.
type ProductPage struct {
	Products []Product
	Page     int
	Limit    int
	Total    int
}

// CatalogRepository captures persistence operations for the catalog.
type CatalogRepository interface {
	// CreateCategory returns ErrCategoryExists on a duplicate name.
	CreateCategory(ctx context.Context, c Category) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateProduct(ctx context.Context, p Product) (*Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, int, error)
}

// CatalogService maintains categories and products.
type CatalogService struct {
	repo CatalogRepository
	now  func() time.Time
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo, now: time.Now}
}

// CreateCategory adds a category with a unique name.
func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	category := Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories with product counts, name ascending.
func (s *CatalogService) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateProduct adds a product to the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, categoryID, name, description, imageURL string, price float64, stock int) (*Product, error) {
	product := Product{
		ID:          uuid.NewString(),
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		Price:       Round2(price),
		Stock:       stock,
		ImageURL:    imageURL,
		CreatedAt:   s.now().UTC(),
	}
	return s.repo.CreateProduct(ctx, product)
}

// GetProduct fetches one product with its category.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts returns a filtered, paginated product page, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: products, Page: filter.Page, Limit: filter.Limit, Total: total}, nil
}
