package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
)

// CatalogRepository provides Postgres-backed persistence for the store
// catalog.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// CreateCategory inserts a category, mapping the unique name constraint to
// the domain duplicate error.
func (r *CatalogRepository) CreateCategory(ctx context.Context, c domain.Category) error {
	const stmt = `INSERT INTO categories (category_id, name, description) VALUES ($1,$2,$3)`

	_, err := r.pool.Exec(ctx, stmt, c.ID, c.Name, c.Description)
	if isUniqueViolation(err, "categories_name_key") {
		return domain.ErrCategoryExists
	}
	return err
}

// ListCategories returns all categories with their product counts, name
// ascending.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT c.category_id, c.name, c.description, COUNT(p.product_id)
        FROM categories c
        LEFT JOIN products p ON p.category_id = c.category_id
        GROUP BY c.category_id, c.name, c.description
        ORDER BY c.name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProductCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const productColumns = `p.product_id, p.category_id, p.name, p.description, p.price, p.stock, p.image_url, p.created_at,
        c.category_id, c.name, c.description`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var c domain.Category
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt,
		&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// CreateProduct inserts a product and returns it with its category.
func (r *CatalogRepository) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const stmt = `INSERT INTO products (product_id, category_id, name, description, price, stock, image_url, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	if _, err := r.pool.Exec(ctx, stmt, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.CreatedAt); err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, p.ID)
}

// GetProduct retrieves one product with its category; nil when missing.
func (r *CatalogRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products p
        JOIN categories c ON c.category_id = p.category_id
        WHERE p.product_id=$1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns a filtered page of products, newest first, plus the
// filtered total.
func (r *CatalogRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	const where = ` FROM products p
        JOIN categories c ON c.category_id = p.category_id
        WHERE ($1 = '' OR c.name ILIKE $1)
          AND ($2 = '' OR p.name ILIKE '%' || $2 || '%' OR p.description ILIKE '%' || $2 || '%')`

	offset := (filter.Page - 1) * filter.Limit

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+where+`
        ORDER BY p.created_at DESC
        OFFSET $3 LIMIT $4`, filter.Category, filter.Search, offset, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, filter.Category, filter.Search).Scan(&total); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
