package product

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sewa-be/internal/logger"

	"go.uber.org/zap"
)

// Repository is the read side of the catalog. Shop, product and inventory
// writes are owned elsewhere.
type Repository interface {
	GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error)
	List(ctx context.Context, limit, page *int32) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id,
	shop_id,
	name,
	price,
	availability_status,
	status,
	created_at,
	updated_at
`

func scanProduct(s interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	if err := s.Scan(
		&p.ID,
		&p.ShopID,
		&p.Name,
		&p.Price,
		&p.Availability,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductByID returns nil, nil when the product does not exist (or is
// not rentable and OnlyRentable is set).
func (r *repository) GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductByID"),
		zap.Uint("product_id", opts.ProductID),
	)

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if opts.OnlyRentable {
		query += ` AND status <> 'blocked'`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, opts.ProductID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("product not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get product", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (r *repository) List(ctx context.Context, limit, page *int32) ([]*Product, error) {
	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}
	offset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE status <> 'blocked'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, finalLimit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]*Product, 0, finalLimit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(products)),
		zap.Duration("duration", time.Since(start)),
	)

	return products, nil
}
