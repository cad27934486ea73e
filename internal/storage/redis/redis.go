package redis

import (
	"context"
	"fmt"
	"time"

	pkgredis "buyforyou-bot/pkg/redis"

	"github.com/shopspring/decimal"
)

const rateKey = "rate:yuan"

// KV is the part of the redis client the storage needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

// Storage keeps the exchange rate override and per-user flood counters.
// Order drafts are never written here.
type Storage struct {
	kv KV
}

func New(kv KV) *Storage {
	return &Storage{kv: kv}
}

// LoadRate returns the persisted rate override, ok is false when none is set.
func (s *Storage) LoadRate(ctx context.Context) (decimal.Decimal, bool, error) {
	const operation = "redis.LoadRate"

	data, err := s.kv.Get(ctx, rateKey)
	if pkgredis.IsNil(err) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%s: %w", operation, err)
	}

	v, err := decimal.NewFromString(string(data))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%s: bad stored value %q: %w", operation, data, err)
	}
	return v, true, nil
}

func (s *Storage) SaveRate(ctx context.Context, v decimal.Decimal) error {
	if err := s.kv.Set(ctx, rateKey, []byte(v.String()), 0); err != nil {
		return fmt.Errorf("redis.SaveRate: %w", err)
	}
	return nil
}

// CheckRateLimit counts one more action of userID in the current window and
// reports whether the limit is exceeded.
func (s *Storage) CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%d:%s", userID, action)

	count, err := s.kv.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiry if this is the first increment
	if count == 1 {
		if _, err := s.kv.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > limit, nil
}
