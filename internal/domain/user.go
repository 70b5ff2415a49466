package domain

import "time"

// User represents a customer account
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserUpdate carries a partial user update. Nil fields were omitted from the
// request and must be left untouched; non-nil fields overwrite, including
// explicit empty values.
type UserUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// IsEmpty reports whether no field is present in the patch.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Address == nil
}
