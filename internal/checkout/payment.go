package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method is one of the accepted payment methods.
type Method string

const (
	MethodCard     Method = "card"
	MethodYape     Method = "yape"
	MethodPlin     Method = "plin"
	MethodTransfer Method = "transfer"
	MethodCash     Method = "cash"
)

var Methods = []Method{MethodCard, MethodYape, MethodPlin, MethodTransfer, MethodCash}

var ErrInvalidMethod = errors.New("unknown payment method")

func (m Method) Valid() bool {
	for _, v := range Methods {
		if m == v {
			return true
		}
	}
	return false
}

// AcceptsReference reports whether the client shows a reference field.
func (m Method) AcceptsReference() bool {
	return m == MethodYape || m == MethodPlin || m == MethodTransfer
}

type PaymentSelection struct {
	Method    Method `json:"method"`
	Reference string `json:"reference,omitempty"`
}

// NewSelection validates method and keeps the trimmed reference only for
// methods that accept one. The reference is never required.
func NewSelection(method, reference string) (PaymentSelection, error) {
	m := Method(strings.ToLower(strings.TrimSpace(method)))
	if !m.Valid() {
		return PaymentSelection{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	sel := PaymentSelection{Method: m}
	if m.AcceptsReference() {
		sel.Reference = strings.TrimSpace(reference)
	}
	return sel, nil
}

var (
	// ErrPaymentDeclined is final; retrying will not help.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrGatewayUnavailable is transient.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Charge is a single payment request.
type Charge struct {
	BookingCode string
	UserID      int
	Amount      decimal.Decimal
	Selection   PaymentSelection
}

// Authorization is the gateway's approval.
type Authorization struct {
	Reference  string    `json:"reference"`
	ApprovedAt time.Time `json:"approvedAt"`
}

// Gateway charges a payment selection.
type Gateway interface {
	Charge(ctx context.Context, ch Charge) (Authorization, error)
}

// SimulatedGateway waits a fixed delay and approves every charge.
type SimulatedGateway struct {
	delay time.Duration
	now   func() time.Time
}

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{delay: delay, now: time.Now}
}

func (g *SimulatedGateway) Charge(ctx context.Context, ch Charge) (Authorization, error) {
	if g.delay > 0 {
		t := time.NewTimer(g.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Authorization{}, ctx.Err()
		case <-t.C:
		}
	}
	return Authorization{
		Reference:  "SIM-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		ApprovedAt: g.now().UTC(),
	}, nil
}
