package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// OrderRepository defines the interface for order data access. CreateWithItems
// is the transactional heart of the order workflow: it locks every referenced
// product, checks stock, computes the total, and materializes the order, its
// items, and the stock decrements as a single all-or-nothing unit.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, userID int64, items []domain.OrderItemInput, shippingAddress *string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	FindItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	Update(ctx context.Context, id int64, patch domain.OrderUpdate) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems validates and persists an order in one transaction.
//
// Each product row is locked with SELECT ... FOR UPDATE in input order, then
// checked for existence and stock sufficiency, fail-fast: the first violation
// aborts the transaction, so a failed request leaves no order, no items, and
// no stock change. Line items snapshot the price read under the lock; the
// lock guarantees it cannot drift before the commit.
func (r *orderRepository) CreateWithItems(ctx context.Context, userID int64, items []domain.OrderItemInput, shippingAddress *string) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lockQuery := `SELECT name, price, stock FROM products WHERE id = $1 FOR UPDATE`

	total := 0.0
	prices := make([]float64, len(items))

	for i, item := range items {
		var (
			name  string
			price float64
			stock int
		)

		err := tx.QueryRowContext(ctx, lockQuery, item.ProductID).Scan(&name, &price, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, domain.NewNotFound("product", item.ProductID)
			}
			return nil, fmt.Errorf("failed to lock product %d: %w", item.ProductID, err)
		}

		if stock < item.Quantity {
			return nil, &domain.InsufficientStockError{Product: name}
		}

		prices[i] = price
		total += price * float64(item.Quantity)
	}

	order := &domain.Order{
		UserID:          userID,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}

	insertOrder := `
		INSERT INTO orders (user_id, total_amount, status, shipping_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, insertOrder, order.UserID, order.TotalAmount, order.Status, order.ShippingAddress).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
	`
	decrementStock := `
		UPDATE products
		SET stock = stock - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	for i, item := range items {
		if _, err := tx.ExecContext(ctx, insertItem, order.ID, item.ProductID, item.Quantity, prices[i]); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		if _, err := tx.ExecContext(ctx, decrementStock, item.Quantity, item.ProductID); err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return order, nil
}

// List retrieves all orders with the owning user's name and email, most
// recent first.
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.shipping_address,
		       u.name AS user_name, u.email AS user_email, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.id
		ORDER BY o.id DESC
	`

	return r.queryOrders(ctx, query)
}

// FindByID retrieves an order by ID with the owning user's name and email
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.shipping_address,
		       u.name AS user_name, u.email AS user_email, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.id
		WHERE o.id = $1
	`

	order := &domain.Order{}
	err := scanOrder(r.db.QueryRowContext(ctx, query, id), order)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// FindByUserID retrieves a user's orders, most recent first
func (r *orderRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.shipping_address,
		       u.name AS user_name, u.email AS user_email, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.id
		WHERE o.user_id = $1
		ORDER BY o.id DESC
	`

	return r.queryOrders(ctx, query, userID)
}

// FindItems retrieves an order's line items enriched with the current product
// name and description. The stored price stays the creation-time snapshot.
func (r *orderRepository) FindItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       p.name AS product_name, p.description AS product_description, oi.created_at
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	orderItems := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.ProductName,
			&item.ProductDescription,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		orderItems = append(orderItems, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return orderItems, nil
}

// Update applies a partial update to status and/or shipping address. An empty
// patch returns the current row unchanged.
func (r *orderRepository) Update(ctx context.Context, id int64, patch domain.OrderUpdate) (*domain.Order, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	sets := []string{}
	args := []interface{}{}
	arg := 1

	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", arg))
		args = append(args, *patch.Status)
		arg++
	}
	if patch.ShippingAddress != nil {
		sets = append(sets, fmt.Sprintf("shipping_address = $%d", arg))
		args = append(args, *patch.ShippingAddress)
		arg++
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE orders
		SET %s
		WHERE id = $%d
		RETURNING id, user_id, total_amount, status, shipping_address, created_at, updated_at
	`, strings.Join(sets, ", "), arg)

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.ShippingAddress,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

// Delete removes an order; its items cascade at the storage level.
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFound("order", id)
	}

	return nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(s scanner, order *domain.Order) error {
	return s.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.ShippingAddress,
		&order.UserName,
		&order.UserEmail,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}
