package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"buyforyou-bot/internal/storage"
	"buyforyou-bot/internal/storage/mocks"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestPostgresStorage_StatisticsFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockCache := mocks.NewMockCache(ctrl)

	want := &storage.OrderStatistics{
		TotalOrders:  3,
		TotalRevenue: decimal.RequireFromString("6450.50"),
		TodayOrders:  1,
		TodayRevenue: decimal.NewFromInt(2150),
		StatusCounts: map[string]int{storage.StatusNew: 3},
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	mockCache.EXPECT().Get(gomock.Any(), storage.StatsCacheKey).Return(data, nil)

	// no database: a cache hit must not reach it
	s := storage.NewPostgresStorageWithDB(nil, mockCache, zap.NewNop())

	got, err := s.GetOrderStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetOrderStatistics failed: %v", err)
	}
	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		t.Errorf("statistics mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgresStorage_InvalidateStats(t *testing.T) {
	testCases := []struct {
		TestName string
		DelErr   error
	}{
		{TestName: "deleted", DelErr: nil},
		{TestName: "cache error is only logged", DelErr: errors.New("connection refused")},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			mockCache := mocks.NewMockCache(ctrl)

			mockCache.EXPECT().Del(gomock.Any(), storage.StatsCacheKey).Return(tc.DelErr)

			s := storage.NewPostgresStorageWithDB(nil, mockCache, zap.NewNop())
			s.InvalidateStats(context.Background())
		})
	}
}

func TestPostgresStorage_InvalidateWithoutCache(t *testing.T) {
	s := storage.NewPostgresStorageWithDB(nil, nil, zap.NewNop())
	s.InvalidateStats(context.Background())
}
