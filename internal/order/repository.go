package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sewa-be/internal/db"
	"sewa-be/internal/logger"
	"sewa-be/internal/outbox"
	"sewa-be/internal/utils"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	Checkout(ctx context.Context, params CheckoutParams) (*Order, error)
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, t Transition) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id,
	user_id,
	total_price,
	borrow_date,
	return_deadline,
	status,
	created_at,
	updated_at
`

func scanOrder(s interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	if err := s.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalPrice,
		&o.BorrowDate,
		&o.ReturnDeadline,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func aggregateKey(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

// Checkout converts every cart line of the user into one pending order and
// clears those lines, all in a single transaction. The cart rows are locked
// first, so a concurrent checkout of the same cart waits and then finds it
// empty. A line whose product has since been blocked fails the whole checkout.
func (r *repository) Checkout(ctx context.Context, params CheckoutParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", params.UserID),
	)

	var created *Order
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		lines, err := lockCartLines(ctx, tx, params.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}

		o := &Order{
			UserID:         params.UserID,
			TotalPrice:     total,
			BorrowDate:     params.BorrowDate,
			ReturnDeadline: params.ReturnDeadline,
			Status:         StatusPending,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				user_id,
				total_price,
				borrow_date,
				return_deadline,
				status
			)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`,
			o.UserID,
			o.TotalPrice,
			o.BorrowDate,
			o.ReturnDeadline,
			o.Status,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		ids := make([]int64, 0, len(lines))
		for _, l := range lines {
			item := &OrderItem{
				OrderID:    o.ID,
				CartLineID: l.CartLineID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				LineTotal:  l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
			}
			err := tx.QueryRowContext(ctx, `
				INSERT INTO order_items (
					order_id,
					cart_line_id,
					product_id,
					quantity,
					unit_price,
					total_price
				)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`,
				item.OrderID,
				item.CartLineID,
				item.ProductID,
				item.Quantity,
				item.UnitPrice,
				item.LineTotal,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert order item for cart line %d: %w", l.CartLineID, err)
			}
			o.Items = append(o.Items, item)
			ids = append(ids, int64(l.CartLineID))
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM carts
			WHERE user_id = $1 AND id = ANY($2)
		`, params.UserID, pq.Array(ids))
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if affected != int64(len(ids)) {
			return errCartChanged
		}

		if err := outbox.Insert(ctx, tx, outbox.EventOrderCreated, aggregateKey(o.ID), CreatedEvent{
			OrderID:        o.ID,
			UserID:         o.UserID,
			TotalPrice:     o.TotalPrice,
			BorrowDate:     o.BorrowDate.Format(utils.DateLayout),
			ReturnDeadline: o.ReturnDeadline.Format(utils.DateLayout),
			ItemCount:      len(o.Items),
		}); err != nil {
			return fmt.Errorf("write outbox: %w", err)
		}

		created = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			log.Info("checkout on empty cart")
		} else {
			log.Error("checkout transaction rolled back", zap.Error(err))
		}
		return nil, err
	}

	log.Info("checkout committed",
		zap.Uint("order_id", created.ID),
		zap.Int("items", len(created.Items)),
		zap.String("total_price", created.TotalPrice.StringFixed(2)),
	)
	return created, nil
}

func lockCartLines(ctx context.Context, tx *sql.Tx, userID uint) ([]lockedLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT
			c.id,
			c.product_id,
			c.quantity,
			p.price,
			p.status = 'blocked'
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.id
		FOR UPDATE OF c
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer rows.Close()

	var lines []lockedLine
	for rows.Next() {
		var l lockedLine
		var blocked bool
		if err := rows.Scan(&l.CartLineID, &l.ProductID, &l.Quantity, &l.UnitPrice, &blocked); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if blocked {
			return nil, ErrProductUnavailable
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetOrder returns the order with its items, or nil when it does not exist.
func (r *repository) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrder"),
		zap.Uint("order_id", orderID),
	)

	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("order not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get order", zap.Error(err))
		return nil, err
	}

	items, err := r.fetchItems(ctx, []int64{int64(o.ID)})
	if err != nil {
		log.Error("failed to get order items", zap.Error(err))
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *repository) ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	finalLimit := int32(20)
	if filter.Limit != nil && *filter.Limit > 0 {
		finalLimit = *filter.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if filter.Page != nil && *filter.Page > 0 {
		finalPage = *filter.Page
	}
	offset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)
	start := time.Now()

	var (
		conditions []string
		args       []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + orderColumns + " FROM orders")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	args = append(args, finalLimit, offset)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, int64(o.ID))
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	if len(orders) > 0 {
		items, err := r.fetchItems(ctx, ids)
		if err != nil {
			log.Error("failed to get order items", zap.Error(err))
			return nil, err
		}
		for _, o := range orders {
			o.Items = items[o.ID]
		}
	}

	log.Debug("query success",
		zap.Int("rows", len(orders)),
		zap.Duration("duration", time.Since(start)),
	)
	return orders, nil
}

func (r *repository) fetchItems(ctx context.Context, orderIDs []int64) (map[uint][]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			order_id,
			cart_line_id,
			product_id,
			quantity,
			unit_price,
			total_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint][]*OrderItem, len(orderIDs))
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.CartLineID,
			&it.ProductID,
			&it.Quantity,
			&it.UnitPrice,
			&it.LineTotal,
		); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], &it)
	}
	return out, rows.Err()
}

// UpdateStatus applies t as a compare-and-set on the current status and
// records an order.status_changed event in the same transaction.
func (r *repository) UpdateStatus(ctx context.Context, orderID uint, t Transition) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
	)

	var updated *Order
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		o, err := scanOrder(tx.QueryRowContext(ctx, `
			UPDATE orders
			SET status = $1,
			    updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING `+orderColumns,
			t.To,
			orderID,
			t.From,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return errStatusChanged
		}
		if err != nil {
			return err
		}

		if err := outbox.Insert(ctx, tx, outbox.EventOrderStatusChanged, aggregateKey(o.ID), StatusChangedEvent{
			OrderID: o.ID,
			UserID:  o.UserID,
			Action:  t.Action,
			From:    t.From,
			To:      t.To,
		}); err != nil {
			return fmt.Errorf("write outbox: %w", err)
		}

		updated = o
		return nil
	})
	if errors.Is(err, errStatusChanged) {
		log.Warn("order status changed before update")
		return nil, err
	}
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated")
	return updated, nil
}
