package idempotency

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sewa-be/internal/apperror"

	"github.com/redis/go-redis/v9"
)

const (
	Header = "Idempotency-Key"

	maxKeyLen    = 255
	pendingValue = "pending"
)

var (
	ErrInFlight   = apperror.Conflict("a request with this idempotency key is still in progress")
	ErrInvalidKey = apperror.Validation("Idempotency-Key must be at most 255 characters")
)

// Key returns the trimmed Idempotency-Key header, or "" when absent.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Store remembers which checkout a client key produced.
//
// Claim returns (0, nil) when the caller now owns the key, the stored order
// id when the key already completed, or ErrInFlight while another request
// holds it.
type Store interface {
	Claim(ctx context.Context, userID uint, key string) (uint, error)
	Complete(ctx context.Context, userID uint, key string, orderID uint) error
	Release(ctx context.Context, userID uint, key string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(userID uint, key string) string {
	return fmt.Sprintf("idempotency:checkout:%d:%s", userID, key)
}

func (s *RedisStore) Claim(ctx context.Context, userID uint, key string) (uint, error) {
	if len(key) > maxKeyLen {
		return 0, ErrInvalidKey
	}
	k := redisKey(userID, key)

	// the second pass covers a key that expired between SETNX and GET
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.rdb.SetNX(ctx, k, pendingValue, s.ttl).Result()
		if err != nil {
			return 0, err
		}
		if ok {
			return 0, nil
		}

		val, err := s.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if val == pendingValue {
			return 0, ErrInFlight
		}

		id, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt idempotency record %q: %w", k, err)
		}
		return uint(id), nil
	}
	return 0, ErrInFlight
}

func (s *RedisStore) Complete(ctx context.Context, userID uint, key string, orderID uint) error {
	return s.rdb.Set(ctx, redisKey(userID, key), strconv.FormatUint(uint64(orderID), 10), s.ttl).Err()
}

// Release forgets a claim so the client may retry after a failed attempt.
func (s *RedisStore) Release(ctx context.Context, userID uint, key string) error {
	return s.rdb.Del(ctx, redisKey(userID, key)).Err()
}

// NoopStore is used when no Redis is configured; every claim succeeds.
type NoopStore struct{}

func (NoopStore) Claim(context.Context, uint, string) (uint, error)  { return 0, nil }
func (NoopStore) Complete(context.Context, uint, string, uint) error { return nil }
func (NoopStore) Release(context.Context, uint, string) error        { return nil }
