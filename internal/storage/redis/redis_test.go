package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgredis "buyforyou-bot/pkg/redis"

	"github.com/shopspring/decimal"
)

type fakeKV struct {
	values  map[string][]byte
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		values:  make(map[string][]byte),
		counts:  make(map[string]int64),
		expires: make(map[string]time.Duration),
	}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[key]
	if !ok {
		return nil, pkgredis.ErrNil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = data
	f.expires[key] = ttl
	return nil
}

func (f *fakeKV) Incr(_ context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeKV) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	f.expires[key] = expiration
	return true, nil
}

func TestRateRoundTrip(t *testing.T) {
	s := New(newFakeKV())
	ctx := context.Background()

	if _, ok, err := s.LoadRate(ctx); ok || err != nil {
		t.Fatalf("LoadRate on empty store = %v, %v", ok, err)
	}

	if err := s.SaveRate(ctx, decimal.RequireFromString("12.05")); err != nil {
		t.Fatalf("SaveRate failed: %v", err)
	}

	got, ok, err := s.LoadRate(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadRate = %v, %v", ok, err)
	}
	if !got.Equal(decimal.RequireFromString("12.05")) {
		t.Errorf("rate = %s, want 12.05", got)
	}
}

func TestLoadRate_Errors(t *testing.T) {
	kv := newFakeKV()
	kv.values[rateKey] = []byte("garbage")
	s := New(kv)

	if _, _, err := s.LoadRate(context.Background()); err == nil {
		t.Error("expected error for a corrupt value")
	}

	kv.err = errors.New("connection reset")
	if _, _, err := s.LoadRate(context.Background()); !errors.Is(err, kv.err) {
		t.Errorf("error = %v", err)
	}
}

func TestCheckRateLimit(t *testing.T) {
	kv := newFakeKV()
	s := New(kv)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		exceeded, err := s.CheckRateLimit(ctx, 7, "msg", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
		if exceeded {
			t.Fatalf("limit exceeded on call %d", i)
		}
	}

	exceeded, _ := s.CheckRateLimit(ctx, 7, "msg", 3, time.Minute)
	if !exceeded {
		t.Error("fourth call must exceed the limit")
	}
	if kv.expires["ratelimit:7:msg"] != time.Minute {
		t.Errorf("window not set: %v", kv.expires)
	}

	// other users are counted separately
	if exceeded, _ := s.CheckRateLimit(ctx, 8, "msg", 3, time.Minute); exceeded {
		t.Error("another user hit the limit")
	}
}
