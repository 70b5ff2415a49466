package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderItemRequest is one (product, quantity) pair of an order request
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the order creation payload. Any
// client-supplied status is ignored: new orders are always pending.
type CreateOrderRequest struct {
	UserID          int64              `json:"user_id" validate:"required,gt=0"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *string            `json:"shipping_address" validate:"omitempty,max=500"`
}

// UpdateOrderRequest represents a partial order update
type UpdateOrderRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	ShippingAddress *string `json:"shipping_address" validate:"omitempty,max=500"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/{id}", h.GetByID)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles listing all orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListByUser handles listing a user's orders
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	orders, err := h.orderService.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetByID handles fetching a single order with its line items
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orderService.GetOrderByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Create handles order creation. Unlike elsewhere, an absent user or product
// is the caller's mistake in the request body, so NotFound maps to 400 here,
// as does insufficient stock.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	items := make([]domain.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	order, err := h.orderService.CreateOrder(r.Context(), req.UserID, items, req.ShippingAddress)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsInsufficientStock(err) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, h.logger, err, "failed to create order")
		return
	}

	h.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Float64("total_amount", order.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Update handles a partial order update
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	patch := domain.OrderUpdate{
		ShippingAddress: req.ShippingAddress,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		patch.Status = &status
	}

	order, err := h.orderService.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		respondDomainError(w, h.logger, err, "failed to update order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Delete handles order deletion
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
		respondDomainError(w, h.logger, err, "failed to delete order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
