package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced entity does not exist.
// Entity names the kind (user, product, category, order, review) and ID
// carries the offending identifier when one is known.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Entity)
}

// NewNotFound builds a NotFoundError for the given entity kind and id.
func NewNotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a uniqueness violation: duplicate email, duplicate
// category name, or a second review for the same (user, product) pair.
type ConflictError struct {
	Resource string
	Field    string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("duplicate %s", e.Resource)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
}

// NewConflict builds a ConflictError for a duplicate field value.
func NewConflict(resource, field string) error {
	return &ConflictError{Resource: resource, Field: field}
}

// InsufficientStockError reports that a requested quantity exceeds the
// product's available stock at check time.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s", e.Product)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsInsufficientStock reports whether err is (or wraps) an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}
