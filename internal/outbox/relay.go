package outbox

import (
	"context"
	"encoding/json"
	"time"

	"sewa-be/internal/logger"
	"sewa-be/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const defaultBatchSize = 100

// envelope is the wire shape of a published event.
type envelope struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Relay polls the outbox and publishes pending records in id order.
// Delivery is at-least-once: a record published but not yet marked sent is
// published again on the next pass. Run one Relay per database; see
// FetchPending.
type Relay struct {
	repo      Repository
	pub       Publisher
	interval  time.Duration
	batchSize int
	metrics   *metrics.RelayMetrics
}

// NewRelay builds a relay. A nil m registers the relay's metrics on a private
// registry that nothing exports.
func NewRelay(repo Repository, pub Publisher, interval time.Duration, m *metrics.RelayMetrics) *Relay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if m == nil {
		m = metrics.NewRelayMetrics(prometheus.NewRegistry())
	}
	return &Relay{
		repo:      repo,
		pub:       pub,
		interval:  interval,
		batchSize: defaultBatchSize,
		metrics:   m,
	}
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(zap.String("component", "outbox_relay"))
	log.Info("outbox relay started", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			log.Warn("outbox flush failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Flush publishes one batch and returns how many records were delivered.
// It stops at the first failure so later events never overtake earlier ones.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	timer := prometheus.NewTimer(r.metrics.FlushDuration)
	defer timer.ObserveDuration()
	start := time.Now()

	records, err := r.repo.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range records {
		value, err := json.Marshal(envelope{
			EventID:   rec.EventID,
			Type:      rec.EventType,
			Key:       rec.AggregateKey,
			CreatedAt: rec.CreatedAt,
			Payload:   rec.Payload,
		})
		if err != nil {
			r.metrics.Failed.WithLabelValues(rec.EventType).Inc()
			return sent, err
		}

		if err := r.pub.Publish(ctx, Message{
			Key:       rec.AggregateKey,
			EventType: rec.EventType,
			Value:     value,
		}); err != nil {
			r.metrics.Failed.WithLabelValues(rec.EventType).Inc()
			return sent, err
		}

		if err := r.repo.MarkSent(ctx, rec.ID); err != nil {
			return sent, err
		}
		r.metrics.Published.WithLabelValues(rec.EventType).Inc()
		sent++
	}

	if sent > 0 {
		logger.FromCtx(ctx).Debug("outbox batch published",
			zap.Int("count", sent),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return sent, nil
}
