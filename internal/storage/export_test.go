package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const StatsCacheKey = statsCacheKey

func NewPostgresStorageWithDB(db *sqlx.DB, cache Cache, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, cache: cache, logger: logger}
}

func (s *PostgresStorage) InvalidateStats(ctx context.Context) {
	s.invalidateStats(ctx)
}
