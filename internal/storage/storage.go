package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusNew = "new"

	statsCacheKey = "order_stats"
	statsCacheTTL = time.Hour
)

var (
	ErrArchiveDisabled = errors.New("order archive is disabled")
	ErrArchiveOffline  = errors.New("order archive is temporarily unavailable")
)

// Archive keeps submitted orders for the operators.
type Archive interface {
	SaveOrder(ctx context.Context, rec OrderRecord) error
	ListOrders(ctx context.Context, limit int) ([]OrderRecord, error)
	GetOrderStatistics(ctx context.Context) (*OrderStatistics, error)
}

// Cache is the subset of the redis client used to cache statistics.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type OrderRecord struct {
	ID          string          `db:"id"`
	ChatID      int64           `db:"chat_id"`
	Username    string          `db:"username"`
	Contact     string          `db:"contact"`
	Rate        decimal.Decimal `db:"rate"`
	Total       decimal.Decimal `db:"total"`
	ManualItems int             `db:"manual_items"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`

	Items []ItemRecord `db:"-"`
}

type ItemRecord struct {
	OrderID     string              `db:"order_id"`
	Position    int                 `db:"position"`
	Category    string              `db:"category"`
	Size        string              `db:"size"`
	PriceCNY    decimal.Decimal     `db:"price_cny"`
	TotalRUB    decimal.NullDecimal `db:"total_rub"`
	PhotoFileID string              `db:"photo_file_id"`
}

type OrderStatistics struct {
	TotalOrders  int             `db:"total_orders"`
	TotalRevenue decimal.Decimal `db:"total_revenue"`
	TodayOrders  int             `db:"today_orders"`
	TodayRevenue decimal.Decimal `db:"today_revenue"`
	WeekOrders   int             `db:"week_orders"`
	WeekRevenue  decimal.Decimal `db:"week_revenue"`
	MonthOrders  int             `db:"month_orders"`
	MonthRevenue decimal.Decimal `db:"month_revenue"`
	StatusCounts map[string]int  `db:"-"`
}

// DisabledArchive is used when no database is configured.
type DisabledArchive struct{}

func (DisabledArchive) SaveOrder(context.Context, OrderRecord) error { return ErrArchiveDisabled }

func (DisabledArchive) ListOrders(context.Context, int) ([]OrderRecord, error) {
	return nil, ErrArchiveDisabled
}

func (DisabledArchive) GetOrderStatistics(context.Context) (*OrderStatistics, error) {
	return nil, ErrArchiveDisabled
}
