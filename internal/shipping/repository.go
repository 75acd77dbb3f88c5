package shipping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sewa-be/internal/db"
	"sewa-be/internal/logger"
	"sewa-be/internal/outbox"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, s *Shipping) error
	GetByOrderID(ctx context.Context, orderID uint) (*Shipping, error)
	List(ctx context.Context, ownerID *uint) ([]*Shipping, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const shippingColumns = `
	s.id,
	s.order_id,
	s.address,
	s.postal_code,
	s.phone_number,
	s.user_name,
	s.created_at
`

func scanShipping(row interface{ Scan(...any) error }) (*Shipping, error) {
	var s Shipping
	if err := row.Scan(
		&s.ID,
		&s.OrderID,
		&s.Address,
		&s.PostalCode,
		&s.PhoneNumber,
		&s.UserName,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts the record and its shipping.created event. A second record
// for the same order violates the unique order_id and yields
// ErrShippingExists.
func (r *repository) Create(ctx context.Context, s *Shipping) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Uint("order_id", s.OrderID),
	)

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO shippings (
				order_id,
				address,
				postal_code,
				phone_number,
				user_name
			)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`,
			s.OrderID,
			s.Address,
			s.PostalCode,
			s.PhoneNumber,
			s.UserName,
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
				return ErrShippingExists
			}
			return err
		}

		return outbox.Insert(ctx, tx, outbox.EventShippingCreated, fmt.Sprintf("order:%d", s.OrderID), CreatedEvent{
			ShippingID: s.ID,
			OrderID:    s.OrderID,
			PostalCode: s.PostalCode,
		})
	})
	if errors.Is(err, ErrShippingExists) {
		log.Warn("shipping already exists")
		return err
	}
	if err != nil {
		log.Error("failed to create shipping", zap.Error(err))
		return err
	}

	log.Info("shipping created", zap.Uint("shipping_id", s.ID))
	return nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID uint) (*Shipping, error) {
	s, err := scanShipping(r.db.QueryRowContext(ctx, `
		SELECT `+shippingColumns+`
		FROM shippings s
		WHERE s.order_id = $1
	`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get shipping",
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}
	return s, nil
}

// List returns shipping records, restricted to orders of ownerID when set.
func (r *repository) List(ctx context.Context, ownerID *uint) ([]*Shipping, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT ` + shippingColumns + ` FROM shippings s`
	var args []any
	if ownerID != nil {
		query += ` JOIN orders o ON o.id = s.order_id WHERE o.user_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]*Shipping, 0)
	for rows.Next() {
		s, err := scanShipping(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}
