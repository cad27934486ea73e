package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// ConnectTimeout bounds the whole retry loop.
	ConnectTimeout time.Duration
}

type PostgresStorage struct {
	db     *sqlx.DB
	cache  Cache
	logger *zap.Logger
}

const (
	insertOrder = `
        INSERT INTO orders (
            id, chat_id, username, contact, rate, total, manual_items, status, created_at
        ) VALUES (
            :id, :chat_id, :username, :contact, :rate, :total, :manual_items, :status, :created_at
        )`

	insertItem = `
        INSERT INTO order_items (
            order_id, position, category, size, price_cny, total_rub, photo_file_id
        ) VALUES (
            :order_id, :position, :category, :size, :price_cny, :total_rub, :photo_file_id
        )`

	selectOrders = `
        SELECT id, chat_id, username, contact, rate, total, manual_items, status, created_at
        FROM orders
        ORDER BY created_at DESC
        LIMIT $1`

	selectItems = `
        SELECT order_id, position, category, size, price_cny, total_rub, photo_file_id
        FROM order_items
        WHERE order_id = ANY($1)
        ORDER BY order_id, position`

	selectStatistics = `
        SELECT
            COUNT(*) AS total_orders,
            COALESCE(SUM(total), 0) AS total_revenue,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS today_orders,
            COALESCE(SUM(total) FILTER (WHERE created_at >= CURRENT_DATE), 0) AS today_revenue,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '7 days') AS week_orders,
            COALESCE(SUM(total) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '7 days'), 0) AS week_revenue,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days') AS month_orders,
            COALESCE(SUM(total) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days'), 0) AS month_revenue
        FROM orders`

	selectStatusCounts = `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`
)

func NewPostgresStorage(ctx context.Context, cfg Config, cache Cache, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.ConnectTimeout
	if retryPolicy.MaxElapsedTime == 0 {
		retryPolicy.MaxElapsedTime = 2 * time.Minute
	}
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := conn.PingContext(ctx); err != nil {
				_ = conn.Close()
				return fmt.Errorf("ping: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{db: db, cache: cache, logger: logger}, nil
}

// Migrate applies the embedded schema migrations.
func (s *PostgresStorage) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.db.DB, s.logger)
}

func (s *PostgresStorage) SaveOrder(ctx context.Context, rec OrderRecord) error {
	const operation = "storage.SaveOrder"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExecContext(ctx, insertOrder, rec); err != nil {
		return fmt.Errorf("%s: insert order: %w", operation, err)
	}

	for i, item := range rec.Items {
		item.OrderID = rec.ID
		item.Position = i + 1
		if _, err := tx.NamedExecContext(ctx, insertItem, item); err != nil {
			return fmt.Errorf("%s: insert item %d: %w", operation, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", operation, err)
	}

	s.invalidateStats(ctx)
	return nil
}

// ListOrders returns the latest orders with their items, newest first.
func (s *PostgresStorage) ListOrders(ctx context.Context, limit int) ([]OrderRecord, error) {
	const operation = "storage.ListOrders"

	var orders []OrderRecord
	if err := s.db.SelectContext(ctx, &orders, selectOrders, limit); err != nil {
		return nil, fmt.Errorf("%s: select orders: %w", operation, err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
	}

	var items []ItemRecord
	if err := s.db.SelectContext(ctx, &items, selectItems, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("%s: select items: %w", operation, err)
	}
	for _, it := range items {
		idx := byID[it.OrderID]
		orders[idx].Items = append(orders[idx].Items, it)
	}

	return orders, nil
}

func (s *PostgresStorage) GetOrderStatistics(ctx context.Context) (*OrderStatistics, error) {
	const operation = "storage.GetOrderStatistics"

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var stats OrderStatistics
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &OrderStatistics{StatusCounts: make(map[string]int)}
	if err := s.db.GetContext(ctx, stats, selectStatistics); err != nil {
		return nil, fmt.Errorf("%s: totals: %w", operation, err)
	}

	rows, err := s.db.QueryxContext(ctx, selectStatusCounts)
	if err != nil {
		return nil, fmt.Errorf("%s: status counts: %w", operation, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%s: scan status count: %w", operation, err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: status counts: %w", operation, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, data, statsCacheTTL); err != nil {
				s.logger.Warn("Failed to cache order statistics", zap.Error(err))
			}
		}
	}

	return stats, nil
}

func (s *PostgresStorage) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate order statistics", zap.Error(err))
	}
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
