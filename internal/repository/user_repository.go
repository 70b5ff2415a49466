package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and fills in the generated id and timestamps.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, email, password, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.Password,
		user.Phone,
		user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("user", "email")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// List retrieves all users ordered by id
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, password, phone, address, created_at, updated_at
		FROM users
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user := &domain.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, email, password, phone, address, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, id), user)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("user", id)
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by email using parameterized queries
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password, phone, address, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, email), user)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("user", 0)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// Update applies a partial update built from the present patch fields only.
// An empty patch returns the current row unchanged.
func (r *userRepository) Update(ctx context.Context, id int64, patch domain.UserUpdate) (*domain.User, error) {
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
	if patch.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", arg))
		args = append(args, *patch.Email)
		arg++
	}
	if patch.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", arg))
		args = append(args, *patch.Phone)
		arg++
	}
	if patch.Address != nil {
		sets = append(sets, fmt.Sprintf("address = $%d", arg))
		args = append(args, *patch.Address)
		arg++
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING id, name, email, password, phone, address, created_at, updated_at
	`, strings.Join(sets, ", "), arg)

	user := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, args...), user)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("user", id)
		}
		if isUniqueViolation(err) {
			return nil, domain.NewConflict("user", "email")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes a user; orders and reviews cascade at the storage level.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFound("user", id)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s scanner, user *domain.User) error {
	return s.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.Address,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
