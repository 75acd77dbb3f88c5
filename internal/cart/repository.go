package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sewa-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetLine(ctx context.Context, userID, lineID uint) (*CartLine, error)
	GetLineByProduct(ctx context.Context, userID, productID uint) (*CartLine, error)
	CreateLine(ctx context.Context, params CreateLineParams) (*CartLine, error)
	SetQuantity(ctx context.Context, params SetQuantityParams) (*CartLine, error)
	DeleteLine(ctx context.Context, userID, lineID uint) error
	ListByUser(ctx context.Context, userID uint) ([]*CartLine, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const lineColumns = `
	id,
	user_id,
	product_id,
	quantity,
	total_price,
	created_at,
	updated_at
`

func scanLine(s interface{ Scan(...any) error }) (*CartLine, error) {
	var l CartLine
	if err := s.Scan(
		&l.ID,
		&l.UserID,
		&l.ProductID,
		&l.Quantity,
		&l.LineTotal,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLine returns the caller's line, or nil when it does not exist or
// belongs to someone else.
func (r *repository) GetLine(ctx context.Context, userID, lineID uint) (*CartLine, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+lineColumns+`
		FROM carts
		WHERE id = $1 AND user_id = $2
	`, lineID, userID)

	l, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repository) GetLineByProduct(ctx context.Context, userID, productID uint) (*CartLine, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+lineColumns+`
		FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)

	l, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repository) CreateLine(ctx context.Context, params CreateLineParams) (*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateLine"),
		zap.Uint("user_id", params.UserID),
		zap.Uint("product_id", params.ProductID),
	)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (
			user_id,
			product_id,
			quantity,
			total_price
		)
		VALUES ($1, $2, $3, $4)
		RETURNING `+lineColumns,
		params.UserID,
		params.ProductID,
		params.Quantity,
		params.LineTotal,
	)

	l, err := scanLine(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			log.Debug("cart line already exists")
			return nil, errLineExists
		}
		log.Error("failed to create cart line", zap.Error(err))
		return nil, err
	}

	log.Info("cart line created", zap.Uint("cart_line_id", l.ID))
	return l, nil
}

// SetQuantity is a compare-and-set on quantity; errStaleLine means another
// writer got there first.
func (r *repository) SetQuantity(ctx context.Context, params SetQuantityParams) (*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SetQuantity"),
		zap.Uint("cart_line_id", params.LineID),
		zap.Int("quantity", params.Quantity),
	)

	row := r.db.QueryRowContext(ctx, `
		UPDATE carts
		SET quantity = $1,
		    total_price = $2,
		    updated_at = NOW()
		WHERE id = $3 AND user_id = $4 AND quantity = $5
		RETURNING `+lineColumns,
		params.Quantity,
		params.LineTotal,
		params.LineID,
		params.UserID,
		params.ExpectedQuantity,
	)

	l, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("cart line changed or vanished")
		return nil, errStaleLine
	}
	if err != nil {
		log.Error("failed to update cart line", zap.Error(err))
		return nil, err
	}

	return l, nil
}

func (r *repository) DeleteLine(ctx context.Context, userID, lineID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE id = $1 AND user_id = $2
	`, lineID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.Uint("user_id", userID),
	)
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			c.user_id,
			c.product_id,
			c.quantity,
			c.total_price,
			c.created_at,
			c.updated_at,
			p.name,
			p.price
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lines := make([]*CartLine, 0)
	for rows.Next() {
		l := CartLine{Product: &ProductSummary{}}
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.ProductID,
			&l.Quantity,
			&l.LineTotal,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.Product.Name,
			&l.Product.Price,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(lines)),
		zap.Duration("duration", time.Since(start)),
	)

	return lines, nil
}
