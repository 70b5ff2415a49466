package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// OrderService defines the interface for order business logic
type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, items []domain.OrderItemInput, shippingAddress *string) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch domain.OrderUpdate) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// CreateOrder runs the order workflow: resolve the user, then atomically
// validate every (product, quantity) pair in input order, compute the total,
// and persist the order with its line items while decrementing stock.
//
// Validation is fail-fast: the first absent product or insufficient stock
// aborts the whole request and nothing is persisted. The returned order
// carries its freshly loaded line items.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, items []domain.OrderItemInput, shippingAddress *string) (*domain.Order, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.CreateWithItems(ctx, userID, items, shippingAddress)
	if err != nil {
		return nil, err
	}

	orderItems, err := s.orderRepo.FindItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	order.Items = orderItems

	return order, nil
}

// GetOrderByID retrieves an order together with its resolved line items
func (s *orderService) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orderItems, err := s.orderRepo.FindItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	order.Items = orderItems

	return order, nil
}

// GetOrdersByUserID retrieves a user's orders, most recent first
func (s *orderService) GetOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByUserID(ctx, userID)
}

// ListOrders retrieves all orders
func (s *orderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

// UpdateOrder overwrites the status and/or shipping address. Any enum value
// is reachable from any other; there is no transition guard.
func (s *orderService) UpdateOrder(ctx context.Context, id int64, patch domain.OrderUpdate) (*domain.Order, error) {
	return s.orderRepo.Update(ctx, id, patch)
}

// DeleteOrder removes an order and, via cascade, its items
func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	return s.orderRepo.Delete(ctx, id)
}
