package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"royal-seed/internal/database"
	"royal-seed/internal/domain"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this product_id already exists")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	First(ctx context.Context) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByProductID(ctx context.Context, productID string) (*domain.Product, error)
	Count(ctx context.Context) (int, error)
}

type productRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB, dialect database.Dialect) ProductRepository {
	return &productRepository{db: db, dialect: dialect}
}

const productColumns = `id, seller_id, title, description, price_origin, price_sell, product_id, price_id, created_at, updated_at`

func scanProduct(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.SellerID,
		&product.Title,
		&product.Description,
		&product.PriceOrigin,
		&product.PriceSell,
		&product.ProductID,
		&product.PriceID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// First returns the product with the lowest id
func (r *productRepository) First(ctx context.Context) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC LIMIT 1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find first product: %w", err)
	}

	return product, nil
}

// Create inserts the product unless its external product_id is taken and sets product.ID.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (seller_id, title, description, price_origin, price_sell, product_id, price_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (product_id) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		database.Rebind(r.dialect, query),
		product.SellerID,
		product.Title,
		product.Description,
		product.PriceOrigin,
		product.PriceSell,
		product.ProductID,
		product.PriceID,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, database.Rebind(r.dialect, query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByProductID retrieves a product by its external billing identifier
func (r *productRepository) FindByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, database.Rebind(r.dialect, query), productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by product_id: %w", err)
	}

	return product, nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}
