package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/metrics"
)

// RetryConfig controls the retries around a gateway call.
type RetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// ResilientGateway retries transient gateway failures with exponential
// backoff behind a circuit breaker. Declines are returned immediately and do
// not count against the breaker.
type ResilientGateway struct {
	next    Gateway
	breaker *gobreaker.CircuitBreaker[Authorization]
	retry   RetryConfig
	log     *zap.Logger
}

func NewResilientGateway(next Gateway, retry RetryConfig, log *zap.Logger) *ResilientGateway {
	if retry.MaxAttempts == 0 {
		retry.MaxAttempts = 1
	}
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrPaymentDeclined)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &ResilientGateway{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[Authorization](settings),
		retry:   retry,
		log:     log,
	}
}

func (g *ResilientGateway) Charge(ctx context.Context, ch Charge) (Authorization, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = g.retry.InitialInterval
	eb.MaxInterval = g.retry.MaxInterval

	attempt := 0
	op := func() (Authorization, error) {
		attempt++
		auth, err := g.breaker.Execute(func() (Authorization, error) {
			return g.next.Charge(ctx, ch)
		})
		switch {
		case err == nil:
			metrics.PaymentAttempts.WithLabelValues("approved").Inc()
			return auth, nil
		case errors.Is(err, ErrPaymentDeclined):
			metrics.PaymentAttempts.WithLabelValues("declined").Inc()
			return Authorization{}, backoff.Permanent(err)
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.PaymentAttempts.WithLabelValues("circuit_open").Inc()
			return Authorization{}, backoff.Permanent(fmt.Errorf("%w: %v", ErrGatewayUnavailable, err))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Authorization{}, backoff.Permanent(err)
		default:
			metrics.PaymentAttempts.WithLabelValues("failed").Inc()
			g.log.Warn("payment attempt failed",
				zap.String("booking_code", ch.BookingCode),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return Authorization{}, err
		}
	}

	auth, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(g.retry.MaxAttempts),
	)
	if err != nil {
		if errors.Is(err, ErrPaymentDeclined) || errors.Is(err, ErrGatewayUnavailable) {
			return Authorization{}, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Authorization{}, err
		}
		return Authorization{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return auth, nil
}
