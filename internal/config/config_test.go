package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/kunapet")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, CartStorePostgres, cfg.CartStore)
	assert.Equal(t, 800*time.Millisecond, cfg.PaymentDelay)
	assert.Equal(t, uint(3), cfg.PaymentMaxAttempts)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PAYMENT_DELAY", "10ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Millisecond, cfg.PaymentDelay)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/kunapet")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidCartStore(t *testing.T) {
	setRequired(t)
	t.Setenv("CART_STORE", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CART_STORE")
}

func TestLoad_ZeroPaymentAttempts(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYMENT_MAX_ATTEMPTS", "0")

	_, err := Load()
	require.Error(t, err)
}
