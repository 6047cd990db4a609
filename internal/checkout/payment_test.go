package checkout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSelection(t *testing.T) {
	sel, err := NewSelection(" Yape ", "  987654321 ")
	require.NoError(t, err)
	assert.Equal(t, MethodYape, sel.Method)
	assert.Equal(t, "987654321", sel.Reference)

	sel, err = NewSelection("card", "ignored")
	require.NoError(t, err)
	assert.Empty(t, sel.Reference)

	sel, err = NewSelection("transfer", "")
	require.NoError(t, err)
	assert.Empty(t, sel.Reference, "reference is optional")

	_, err = NewSelection("paypal", "")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestSimulatedGateway(t *testing.T) {
	g := NewSimulatedGateway(5 * time.Millisecond)
	auth, err := g.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.Contains(t, auth.Reference, "SIM-")
	assert.False(t, auth.ApprovedAt.IsZero())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSimulatedGateway(time.Second).Charge(ctx, Charge{})
	assert.ErrorIs(t, err, context.Canceled)
}

// scriptedGateway returns errs in order, then approves.
type scriptedGateway struct {
	errs  []error
	calls atomic.Int32
}

func (g *scriptedGateway) Charge(context.Context, Charge) (Authorization, error) {
	n := int(g.calls.Add(1)) - 1
	if n < len(g.errs) {
		return Authorization{}, g.errs[n]
	}
	return Authorization{Reference: "OK", ApprovedAt: time.Now()}, nil
}

var fastRetry = RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func TestResilientGatewayRetriesTransientFailures(t *testing.T) {
	next := &scriptedGateway{errs: []error{ErrGatewayUnavailable, errors.New("connection reset")}}
	g := NewResilientGateway(next, fastRetry, zap.NewNop())

	auth, err := g.Charge(context.Background(), Charge{BookingCode: "KNP-1"})
	require.NoError(t, err)
	assert.Equal(t, "OK", auth.Reference)
	assert.EqualValues(t, 3, next.calls.Load())
}

func TestResilientGatewayDoesNotRetryDecline(t *testing.T) {
	next := &scriptedGateway{errs: []error{ErrPaymentDeclined}}
	g := NewResilientGateway(next, fastRetry, zap.NewNop())

	_, err := g.Charge(context.Background(), Charge{})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.EqualValues(t, 1, next.calls.Load())
}

func TestResilientGatewayGivesUp(t *testing.T) {
	next := &scriptedGateway{errs: []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")}}
	g := NewResilientGateway(next, fastRetry, zap.NewNop())

	_, err := g.Charge(context.Background(), Charge{})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.EqualValues(t, 3, next.calls.Load())
}

func TestResilientGatewayOpensCircuit(t *testing.T) {
	errs := make([]error, 10)
	for i := range errs {
		errs[i] = ErrGatewayUnavailable
	}
	next := &scriptedGateway{errs: errs}
	g := NewResilientGateway(next, RetryConfig{MaxAttempts: 1}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := g.Charge(context.Background(), Charge{})
		require.ErrorIs(t, err, ErrGatewayUnavailable)
	}
	require.EqualValues(t, 5, next.calls.Load())

	_, err := g.Charge(context.Background(), Charge{})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.EqualValues(t, 5, next.calls.Load(), "open circuit short-circuits the call")
}
