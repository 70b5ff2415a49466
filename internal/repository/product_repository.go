package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// ProductRepository defines the interface for product data access. Reads join
// against categories to expose the category name alongside each product.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id int64, quantity int) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and fills in the generated id and timestamps.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, category_id, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.ImageURL,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// List retrieves all products with their category names
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id,
		       c.name AS category_name, p.image_url, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		ORDER BY p.id
	`

	return r.queryProducts(ctx, query)
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id,
		       c.name AS category_name, p.image_url, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	product := &domain.Product{}
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), product)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByCategory retrieves all products belonging to a category
func (r *productRepository) FindByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id,
		       c.name AS category_name, p.image_url, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.category_id = $1
		ORDER BY p.id
	`

	return r.queryProducts(ctx, query, categoryID)
}

// Update applies a partial update built from the present patch fields only.
// A present price or stock of zero is applied; absent fields are untouched.
// An empty patch returns the current row unchanged.
func (r *productRepository) Update(ctx context.Context, id int64, patch domain.ProductUpdate) (*domain.Product, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	sets := []string{}
	args := []interface{}{}
	arg := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", arg))
		args = append(args, *patch.Name)
		arg++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", arg))
		args = append(args, *patch.Description)
		arg++
	}
	if patch.Price != nil {
		sets = append(sets, fmt.Sprintf("price = $%d", arg))
		args = append(args, *patch.Price)
		arg++
	}
	if patch.Stock != nil {
		sets = append(sets, fmt.Sprintf("stock = $%d", arg))
		args = append(args, *patch.Stock)
		arg++
	}
	if patch.CategoryID != nil {
		sets = append(sets, fmt.Sprintf("category_id = $%d", arg))
		args = append(args, *patch.CategoryID)
		arg++
	}
	if patch.ImageURL != nil {
		sets = append(sets, fmt.Sprintf("image_url = $%d", arg))
		args = append(args, *patch.ImageURL)
		arg++
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d
		RETURNING id, name, description, price, stock, category_id, image_url, created_at, updated_at
	`, strings.Join(sets, ", "), arg)

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CategoryID,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFound("product", id)
	}

	return nil
}

// DecrementStock lowers a product's stock by quantity. Callers must have
// verified stock sufficiency first; the order workflow performs its own
// decrement inside its transaction and does not use this method.
func (r *productRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFound("product", id)
	}

	return nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(s scanner, product *domain.Product) error {
	return s.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CategoryID,
		&product.CategoryName,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
