package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Cart store backends.
const (
	CartStoreMemory   = "memory"
	CartStoreRedis    = "redis"
	CartStorePostgres = "postgres"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr         string        `env:"PET_SHOP_ADDR" envDefault:":8080"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`

	CartStore     string        `env:"CART_STORE" envDefault:"postgres"`
	CartTTL       time.Duration `env:"CART_TTL" envDefault:"168h"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	PaymentDelay        time.Duration `env:"PAYMENT_DELAY" envDefault:"800ms"`
	PaymentMaxAttempts  uint          `env:"PAYMENT_MAX_ATTEMPTS" envDefault:"3"`
	PaymentRetryInitial time.Duration `env:"PAYMENT_RETRY_INITIAL" envDefault:"200ms"`
	PaymentRetryMax     time.Duration `env:"PAYMENT_RETRY_MAX" envDefault:"2s"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
}

// Load reads a .env file when present and then parses environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	switch c.CartStore {
	case CartStoreMemory, CartStorePostgres:
	case CartStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CART_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid CART_STORE %q", c.CartStore)
	}
	if c.PaymentMaxAttempts < 1 {
		return fmt.Errorf("PAYMENT_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
