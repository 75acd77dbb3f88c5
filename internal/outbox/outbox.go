package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventShippingCreated    = "shipping.created"
)

// Record is one pending or delivered row of the outbox table.
type Record struct {
	ID           int64           `json:"id"`
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	AggregateKey string          `json:"key"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
	SentAt       *time.Time      `json:"sent_at,omitempty"`
}

// Execer is satisfied by both *sql.DB and *sql.Tx, so events can be written
// in the same transaction as the state change they describe.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Insert stores an event for later delivery by the relay.
func Insert(ctx context.Context, exec Execer, eventType, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO outbox (event_id, event_type, aggregate_key, payload)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), eventType, key, data)
	return err
}

type Repository interface {
	FetchPending(ctx context.Context, limit int) ([]Record, error)
	MarkSent(ctx context.Context, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FetchPending reads the oldest unsent records without locking or claiming
// them. Two relays polling the same table would publish the same records, so
// only a single relay instance may run against one database.
func (r *repository) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, event_type, aggregate_key, payload, created_at, sent_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.EventID,
			&rec.EventType,
			&rec.AggregateKey,
			&rec.Payload,
			&rec.CreatedAt,
			&rec.SentAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox SET sent_at = NOW() WHERE id = $1`, id)
	return err
}
