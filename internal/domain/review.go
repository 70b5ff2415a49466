package domain

import "time"

// Review is a user's rating of a product. At most one review may exist per
// (user, product) pair. UserName/ProductName are populated on joined reads.
type Review struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	Rating      int       `json:"rating" db:"rating"`
	Comment     *string   `json:"comment,omitempty" db:"comment"`
	UserName    *string   `json:"user_name,omitempty" db:"user_name"`
	ProductName *string   `json:"product_name,omitempty" db:"product_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewUpdate carries a partial review update (nil = field omitted).
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// IsEmpty reports whether no field is present in the patch.
func (u ReviewUpdate) IsEmpty() bool {
	return u.Rating == nil && u.Comment == nil
}
