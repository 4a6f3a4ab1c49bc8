// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetAuthTokenHash(ctx context.Context, id int64, tokenHash *string) error
	SetImageFilename(ctx context.Context, id int64, filename *string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, user, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash,
		       auth_token_hash, image_filename, created_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash,
		       auth_token_hash, image_filename, created_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash,
		       auth_token_hash, image_filename, created_at
		FROM users
		WHERE auth_token_hash = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by token: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetAuthTokenHash(
	ctx context.Context,
	id int64,
	tokenHash *string,
) error {
	query := `
		UPDATE users
		SET auth_token_hash = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, tokenHash)
	if err != nil {
		return fmt.Errorf("set auth token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set auth token: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set auth token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetImageFilename(
	ctx context.Context,
	id int64,
	filename *string,
) error {
	query := `
		UPDATE users
		SET image_filename = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, filename)
	if err != nil {
		return fmt.Errorf("set user image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set user image: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set user image: %w", core.ErrNotFound)
	}

	return nil
}
