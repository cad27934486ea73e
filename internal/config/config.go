package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

type Config struct {
	TelegramToken  string  `env:"TELEGRAM_TOKEN,required,notEmpty"`
	TelegramDebug  bool    `env:"TELEGRAM_DEBUG" envDefault:"false"`
	OperatorChatID int64   `env:"OPERATOR_CHAT_ID,required"`
	AdminIDs       []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Тарифы
	YuanRate       decimal.Decimal   `env:"YUAN_RATE" envDefault:"11.5"`
	CategoryFees   map[string]string `env:"CATEGORY_FEES" envSeparator:";" envKeyValSeparator:"="`
	DeliveryFee    decimal.Decimal   `env:"DELIVERY_FEE" envDefault:"0"`
	CommissionRate decimal.Decimal   `env:"COMMISSION_RATE" envDefault:"0"`

	ManagerURL string `env:"MANAGER_URL" envDefault:"https://t.me/poizon_manager"`
	AssetsDir  string `env:"ASSETS_DIR" envDefault:"assets"`

	HealthAddr string `env:"HEALTH_ADDR"`
	Port       int    `env:"PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Отправка сообщений
	SendRatePerSec float64 `env:"SEND_RATE_PER_SEC" envDefault:"25"`
	SendBurst      int     `env:"SEND_BURST" envDefault:"5"`

	// Redis (необязателен)
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	FloodLimit    int64         `env:"FLOOD_LIMIT" envDefault:"30"`
	FloodWindow   time.Duration `env:"FLOOD_WINDOW" envDefault:"1m"`

	// PostgreSQL (необязателен)
	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME" envDefault:"buyforyou"`
	DBSSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// Load reads .env (when present), the environment, and finally command line
// flags, each layer overriding the previous one.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	fs := pflag.NewFlagSet("buyforyou", pflag.ContinueOnError)
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "Log level.")
	fs.StringVarP(&cfg.HealthAddr, "health-addr", "a", cfg.HealthAddr, "Health endpoint address in a form host:port.")
	fs.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "Directory with prompt images.")
	fs.BoolVar(&cfg.TelegramDebug, "debug", cfg.TelegramDebug, "Log Telegram API traffic.")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OperatorChatID == 0 {
		return errors.New("OPERATOR_CHAT_ID must not be zero")
	}
	if !c.YuanRate.IsPositive() {
		return fmt.Errorf("YUAN_RATE must be positive, got %s", c.YuanRate)
	}
	if c.DeliveryFee.IsNegative() || c.CommissionRate.IsNegative() {
		return errors.New("DELIVERY_FEE and COMMISSION_RATE must not be negative")
	}
	if c.SendRatePerSec <= 0 || c.SendBurst <= 0 {
		return errors.New("SEND_RATE_PER_SEC and SEND_BURST must be positive")
	}
	if c.FloodLimit < 0 {
		return errors.New("FLOOD_LIMIT must not be negative")
	}
	return nil
}

// ListenAddr is the health endpoint address. HEALTH_ADDR wins over PORT.
func (c *Config) ListenAddr() string {
	if c.HealthAddr != "" {
		return c.HealthAddr
	}
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DSN builds the lib/pq connection string, empty when the archive is off.
func (c *Config) DSN() string {
	if c.DBHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
