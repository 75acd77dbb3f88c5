package sellerrequest

import (
	"context"
	"database/sql"
	"errors"

	"sewa-be/internal/db"
	"sewa-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, userID uint) (*SellerRequest, error)
	IsSeller(ctx context.Context, userID uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*SellerRequest, error)
	List(ctx context.Context, userID *uint) ([]*SellerRequest, error)
	Review(ctx context.Context, id uint, status Status) (*SellerRequest, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `id, user_id, status, created_at, updated_at`

func scanRequest(row interface{ Scan(...any) error }) (*SellerRequest, error) {
	var r SellerRequest
	if err := row.Scan(&r.ID, &r.UserID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create opens a pending request. The partial unique index on pending
// requests turns a duplicate into ErrPendingExists.
func (r *repository) Create(ctx context.Context, userID uint) (*SellerRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, `
		INSERT INTO seller_requests (user_id, status)
		VALUES ($1, $2)
		RETURNING `+requestColumns,
		userID, StatusPending,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrPendingExists
		}
		return nil, err
	}
	return req, nil
}

func (r *repository) IsSeller(ctx context.Context, userID uint) (bool, error) {
	var isSeller bool
	err := r.db.QueryRowContext(ctx, `SELECT is_seller FROM users WHERE id = $1`, userID).Scan(&isSeller)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return isSeller, err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*SellerRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+`
		FROM seller_requests
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

func (r *repository) List(ctx context.Context, userID *uint) ([]*SellerRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM seller_requests`
	var args []any
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*SellerRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Review settles a pending request. Approval grants the seller flag in the
// same transaction.
func (r *repository) Review(ctx context.Context, id uint, status Status) (*SellerRequest, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Review"),
		zap.Uint("seller_request_id", id),
		zap.String("status", string(status)),
	)

	var reviewed *SellerRequest
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		req, err := scanRequest(tx.QueryRowContext(ctx, `
			UPDATE seller_requests
			SET status = $1,
			    updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING `+requestColumns,
			status, id, StatusPending,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return errStaleRequest
		}
		if err != nil {
			return err
		}

		if status == StatusApproved {
			if _, err := tx.ExecContext(ctx, `
				UPDATE users
				SET is_seller = TRUE,
				    updated_at = NOW()
				WHERE id = $1
			`, req.UserID); err != nil {
				return err
			}
		}

		reviewed = req
		return nil
	})
	if err != nil {
		if !errors.Is(err, errStaleRequest) {
			log.Error("failed to review seller request", zap.Error(err))
		}
		return nil, err
	}

	log.Info("seller request reviewed", zap.Uint("user_id", reviewed.UserID))
	return reviewed, nil
}
