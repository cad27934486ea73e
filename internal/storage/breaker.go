package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerArchive stops hitting the database after repeated failures so that
// submitting an order never waits on a dead archive.
type BreakerArchive struct {
	next    Archive
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerArchive(next Archive, logger *zap.Logger) *BreakerArchive {
	return &BreakerArchive{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "order-archive",
			Timeout: 30 * time.Second, // через 30 сек пробуем снова
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrArchiveDisabled) || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

func (a *BreakerArchive) SaveOrder(ctx context.Context, rec OrderRecord) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.next.SaveOrder(ctx, rec)
	})
	return translateBreakerErr(err)
}

func (a *BreakerArchive) ListOrders(ctx context.Context, limit int) ([]OrderRecord, error) {
	res, err := a.breaker.Execute(func() (interface{}, error) {
		return a.next.ListOrders(ctx, limit)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	orders, _ := res.([]OrderRecord)
	return orders, nil
}

func (a *BreakerArchive) GetOrderStatistics(ctx context.Context) (*OrderStatistics, error) {
	res, err := a.breaker.Execute(func() (interface{}, error) {
		return a.next.GetOrderStatistics(ctx)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	stats, _ := res.(*OrderStatistics)
	return stats, nil
}

func (a *BreakerArchive) State() gobreaker.State {
	return a.breaker.State()
}

func translateBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrArchiveOffline, err)
	}
	return err
}
