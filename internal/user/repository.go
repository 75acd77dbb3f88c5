package user

import (
	"context"
	"database/sql"
	"errors"

	"sewa-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, full_name, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_seller, is_staff, created_at
	`,
		u.Username,
		u.Email,
		u.FullName,
		u.Password,
		u.Role,
	).Scan(&u.ID, &u.IsSeller, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrEmailExists
		}
		logger.FromCtx(ctx).Error("db: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// FindByEmail returns nil, nil when no active user has the email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, full_name, password, role, is_seller, is_staff, created_at
		FROM users
		WHERE email = $1 AND is_active = TRUE
	`, email).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.Password,
		&u.Role,
		&u.IsSeller,
		&u.IsStaff,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
