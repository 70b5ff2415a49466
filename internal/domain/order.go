package domain

import "time"

// OrderStatus enumerates the order lifecycle states. Any state is reachable
// from any other; there is no transition guard.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a placed order. TotalAmount is derived at creation time
// and never client-supplied. UserName/UserEmail are populated on reads that
// join against users.
type Order struct {
	ID              int64       `json:"id" db:"id"`
	UserID          int64       `json:"user_id" db:"user_id"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	Status          OrderStatus `json:"status" db:"status"`
	ShippingAddress *string     `json:"shipping_address,omitempty" db:"shipping_address"`
	UserName        *string     `json:"user_name,omitempty" db:"user_name"`
	UserEmail       *string     `json:"user_email,omitempty" db:"user_email"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is a line item within an order. Price is an immutable snapshot of
// the product price captured when the order was created; later product price
// changes must not affect it.
type OrderItem struct {
	ID                 int64     `json:"id" db:"id"`
	OrderID            int64     `json:"order_id" db:"order_id"`
	ProductID          int64     `json:"product_id" db:"product_id"`
	Quantity           int       `json:"quantity" db:"quantity"`
	Price              float64   `json:"price" db:"price"`
	ProductName        *string   `json:"product_name,omitempty" db:"product_name"`
	ProductDescription *string   `json:"product_description,omitempty" db:"product_description"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// OrderItemInput is one (product, quantity) pair of a createOrder request.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// OrderUpdate carries a partial order update (nil = field omitted). Only
// status and shipping address are mutable after creation.
type OrderUpdate struct {
	Status          *OrderStatus
	ShippingAddress *string
}

// IsEmpty reports whether no field is present in the patch.
func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.ShippingAddress == nil
}
