package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buyforyou-bot/internal/bot"
	"buyforyou-bot/internal/config"
	"buyforyou-bot/internal/health"
	"buyforyou-bot/internal/pricing"
	"buyforyou-bot/internal/session"
	"buyforyou-bot/internal/storage"
	redisstorage "buyforyou-bot/internal/storage/redis"
	"buyforyou-bot/pkg/logger"
	"buyforyou-bot/pkg/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Инициализация логгера
	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Обработка сигналов завершения
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	table, err := pricing.BuildTable(cfg.CategoryFees, cfg.DeliveryFee, cfg.CommissionRate)
	if err != nil {
		return fmt.Errorf("failed to build tariff table: %w", err)
	}

	rate, err := pricing.NewExchangeRate(cfg.YuanRate)
	if err != nil {
		return fmt.Errorf("invalid exchange rate: %w", err)
	}

	deps := bot.Deps{
		Table:    table,
		Rate:     rate,
		Sessions: session.NewStore(),
		Archive:  storage.DisabledArchive{},
	}

	// Redis необязателен: без него курс не переживает перезапуск
	var cache storage.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx)
		pingCancel()

		if err != nil {
			zapLogger.Warn("Redis is unavailable, continuing without it",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err))
		} else {
			rs := redisstorage.New(redisClient)
			deps.RateStore = rs
			deps.Flood = rs
			cache = redisClient

			if v, ok, err := rs.LoadRate(ctx); err != nil {
				zapLogger.Warn("Failed to load saved exchange rate", zap.Error(err))
			} else if ok {
				if err := rate.Set(v); err != nil {
					zapLogger.Warn("Ignoring saved exchange rate", zap.Error(err))
				} else {
					zapLogger.Info("Using saved exchange rate", zap.String("rate", v.String()))
				}
			}
		}
	}

	// Инициализация PostgreSQL хранилища
	if dsn := cfg.DSN(); dsn != "" {
		pgStorage, err := storage.NewPostgresStorage(ctx, storage.Config{
			DSN:             dsn,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		}, cache, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to init PostgreSQL storage: %w", err)
		}
		defer func() { _ = pgStorage.Close() }()

		if err := pgStorage.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		deps.Archive = storage.NewBreakerArchive(pgStorage, zapLogger)
	} else {
		zapLogger.Info("DB_HOST is not set, order archive disabled")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create Telegram client: %w", err)
	}
	botAPI.Debug = cfg.TelegramDebug
	zapLogger.Info("Authorized on Telegram", zap.String("username", botAPI.Self.UserName))

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	healthServer := health.NewServer(cfg.ListenAddr(), zapLogger)
	healthDone := make(chan struct{})
	go func() {
		defer close(healthDone)
		if err := healthServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("Health server failed", zap.Error(err))
		}
	}()

	tgBot := bot.New(botAPI, cfg, deps, zapLogger)
	err = tgBot.Start(ctx)

	stop()
	<-healthDone
	return err
}
