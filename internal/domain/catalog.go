package domain

import "time"

// Category represents a product category
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryUpdate carries a partial category update (nil = field omitted).
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// IsEmpty reports whether no field is present in the patch.
func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}

// Product represents a product in the catalog. CategoryName is populated on
// reads that join against categories; it is never written.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Price        float64   `json:"price" db:"price"`
	Stock        int       `json:"stock" db:"stock"`
	CategoryID   *int64    `json:"category_id,omitempty" db:"category_id"`
	CategoryName *string   `json:"category_name,omitempty" db:"category_name"`
	ImageURL     *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProductUpdate carries a partial product update (nil = field omitted).
// An explicit zero price or zero stock is a present field and must be applied.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	CategoryID  *int64
	ImageURL    *string
}

// IsEmpty reports whether no field is present in the patch.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Stock == nil && u.CategoryID == nil && u.ImageURL == nil
}
