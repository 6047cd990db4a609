package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/cart"
	"github.com/wichananm65/kunapet-backend/internal/event"
	"github.com/wichananm65/kunapet-backend/internal/keylock"
	"github.com/wichananm65/kunapet-backend/internal/metrics"
	"github.com/wichananm65/kunapet-backend/internal/order"
	"github.com/wichananm65/kunapet-backend/internal/provider"
	"github.com/wichananm65/kunapet-backend/internal/services"
)

var (
	ErrUnknownProvider = errors.New("provider not found")
	ErrUnknownService  = errors.New("service not found")
	ErrServiceMismatch = errors.New("service is not offered by the selected provider")
)

// Carts is the part of the cart service checkout depends on.
type Carts interface {
	Get(ctx context.Context, userID int) (*cart.Cart, error)
	// Hold snapshots the cart and blocks changes to it until Release or Settle.
	Hold(ctx context.Context, userID int) (*cart.Cart, error)
	Release(userID int)
	// Settle empties the held cart after the user leaves the confirmation.
	Settle(ctx context.Context, userID int) error
}

// Orders writes the booking row for a paid checkout.
type Orders interface {
	Create(ctx context.Context, ord order.Order) (order.Order, error)
}

// Providers validates a selected provider.
type Providers interface {
	GetByID(ctx context.Context, id string) (provider.Provider, error)
}

// Services validates a selected pet service.
type Services interface {
	GetByID(ctx context.Context, id string) (services.PetService, error)
}

// Service drives one checkout session per user.
type Service struct {
	carts     Carts
	orders    Orders
	providers Providers
	services  Services
	gateway   Gateway
	publisher event.Publisher
	log       *zap.Logger

	locks    *keylock.Locker
	sessions *sessionStore
	now      func() time.Time
}

type Deps struct {
	Carts     Carts
	Orders    Orders
	Providers Providers
	Services  Services
	Gateway   Gateway
	Publisher event.Publisher
	Log       *zap.Logger
}

func NewService(d Deps) *Service {
	pub := d.Publisher
	if pub == nil {
		pub = event.NopPublisher{}
	}
	return &Service{
		carts:     d.Carts,
		orders:    d.Orders,
		providers: d.Providers,
		services:  d.Services,
		gateway:   d.Gateway,
		publisher: pub,
		log:       d.Log,
		locks:     keylock.New(),
		sessions:  newSessionStore(),
		now:       time.Now,
	}
}

// View returns the current checkout screen for userID.
func (s *Service) View(ctx context.Context, userID int) (View, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.view(ctx, userID, s.sessions.get(userID))
}

func (s *Service) Proceed(ctx context.Context, userID int) (View, error) {
	return s.transition(ctx, userID, EventProceed, func(sess *session) error {
		c, err := s.carts.Get(ctx, userID)
		if err != nil {
			return err
		}
		return sess.seq.Proceed(c.IsEmpty())
	})
}

func (s *Service) Back(ctx context.Context, userID int) (View, error) {
	return s.transition(ctx, userID, EventBack, func(sess *session) error {
		return sess.seq.Back()
	})
}

func (s *Service) ViewSecurity(ctx context.Context, userID int) (View, error) {
	return s.transition(ctx, userID, EventViewSecurity, func(sess *session) error {
		return sess.seq.ViewSecurity()
	})
}

func (s *Service) SelectMethod(ctx context.Context, userID int, sel PaymentSelection) (View, error) {
	return s.transition(ctx, userID, EventSelectMethod, func(sess *session) error {
		return sess.seq.SelectMethod(sel)
	})
}

// SelectProvider sets the provider/service context carried into the order.
// A service without a provider selects the service's provider.
func (s *Service) SelectProvider(ctx context.Context, userID int, sc SelectionContext) (View, error) {
	return s.transition(ctx, userID, "select-provider", func(sess *session) error {
		if sess.seq.Processing() {
			return ErrPaymentInProgress
		}
		if st := sess.seq.State(); st != StateCart && st != StatePaymentMethodSelection {
			return ErrInvalidTransition
		}
		if sc.ServiceID != "" {
			svc, err := s.services.GetByID(ctx, sc.ServiceID)
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					return ErrUnknownService
				}
				return err
			}
			if !svc.Active {
				return ErrUnknownService
			}
			if sc.ProviderID == "" {
				sc.ProviderID = svc.ProviderID
			} else if sc.ProviderID != svc.ProviderID {
				return ErrServiceMismatch
			}
		}
		if sc.ProviderID != "" {
			if _, err := s.providers.GetByID(ctx, sc.ProviderID); err != nil {
				if errors.Is(err, provider.ErrNotFound) {
					return ErrUnknownProvider
				}
				return err
			}
		}
		sess.context = sc
		return nil
	})
}

// Confirm charges the cart and, on success, records the order and moves to
// the confirmation screen. sel, when given, replaces the current selection.
// The session lock is released while the gateway is called so a repeated
// confirm sees the processing flag. The cart stays on hold from the snapshot
// until GoHome, or until the payment fails.
func (s *Service) Confirm(ctx context.Context, userID int, sel *PaymentSelection) (View, error) {
	unlock := s.locks.Lock(userID)
	sess := s.sessions.get(userID)

	if sel != nil {
		if err := sess.seq.SelectMethod(*sel); err != nil {
			unlock()
			s.record(EventConfirm, err)
			return View{}, err
		}
	}
	selection, err := sess.seq.BeginConfirm()
	if err != nil {
		unlock()
		s.record(EventConfirm, err)
		return View{}, err
	}
	c, err := s.carts.Hold(ctx, userID)
	if err != nil {
		sess.seq.AbortConfirm()
		unlock()
		return View{}, err
	}
	if c.IsEmpty() {
		sess.seq.AbortConfirm()
		s.carts.Release(userID)
		unlock()
		s.record(EventConfirm, ErrEmptyCart)
		return View{}, ErrEmptyCart
	}
	lines, totals, sc := c.Lines(), c.Totals(), sess.context
	unlock()

	code := newBookingCode()
	receipt, err := s.settle(ctx, userID, code, selection, lines, totals, sc)

	unlock = s.locks.Lock(userID)
	defer unlock()
	if err != nil {
		sess.seq.AbortConfirm()
		s.carts.Release(userID)
		s.record(EventConfirm, err)
		return View{}, err
	}
	sess.receipt = receipt
	if err := sess.seq.CompleteConfirm(); err != nil {
		return View{}, err
	}
	s.record(EventConfirm, nil)
	return s.view(ctx, userID, sess)
}

func (s *Service) settle(ctx context.Context, userID int, code string, sel PaymentSelection, lines []cart.Line, totals cart.Totals, sc SelectionContext) (*Receipt, error) {
	auth, err := s.gateway.Charge(ctx, Charge{
		BookingCode: code,
		UserID:      userID,
		Amount:      totals.Total,
		Selection:   sel,
	})
	if err != nil {
		s.log.Warn("payment failed", zap.Int("user_id", userID), zap.String("booking_code", code), zap.Error(err))
		return nil, err
	}

	ord, err := s.orders.Create(ctx, order.Order{
		UserID:           userID,
		BookingCode:      code,
		Cart:             lines,
		TotalPrice:       totals.Subtotal,
		ShippingPrice:    totals.Shipping,
		GrandPrice:       totals.Total,
		PaymentMethod:    string(sel.Method),
		PaymentReference: optional(sel.Reference),
		ProviderID:       optional(sc.ProviderID),
		ServiceID:        optional(sc.ServiceID),
		Status:           order.StatusPaid,
	})
	if err != nil {
		// charged but not recorded; needs manual reconciliation
		s.log.Error("order write failed after payment",
			zap.Int("user_id", userID),
			zap.String("booking_code", code),
			zap.String("payment_reference", auth.Reference),
			zap.Error(err),
		)
		return nil, err
	}

	receipt := &Receipt{
		BookingCode: code,
		Method:      sel.Method,
		Reference:   sel.Reference,
		Lines:       lines,
		Totals:      totals,
		OrderID:     ord.OrderID,
		PaidAt:      auth.ApprovedAt,
		Context:     sc,
	}
	s.publish(ctx, userID, receipt, auth)
	s.log.Info("checkout completed",
		zap.Int("user_id", userID),
		zap.String("booking_code", code),
		zap.String("method", string(sel.Method)),
		zap.String("total", totals.Total.StringFixed(2)),
	)
	return receipt, nil
}

func (s *Service) publish(ctx context.Context, userID int, r *Receipt, auth Authorization) {
	e, err := event.New(event.TypeCheckoutCompleted, r.BookingCode, map[string]any{
		"userId":           userID,
		"orderId":          r.OrderID,
		"bookingCode":      r.BookingCode,
		"method":           r.Method,
		"total":            r.Totals.Total,
		"lines":            r.Lines,
		"providerId":       r.Context.ProviderID,
		"serviceId":        r.Context.ServiceID,
		"gatewayReference": auth.Reference,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event.TopicCheckoutCompleted, e)
	}
	if err != nil {
		s.log.Warn("checkout event not published", zap.String("booking_code", r.BookingCode), zap.Error(err))
	}
}

// GoHome leaves the confirmation screen, empties the held cart and discards
// the session, so the next visit starts at the cart. If the cart cannot be
// emptied the session stays on the confirmation screen and the call can be
// retried.
func (s *Service) GoHome(ctx context.Context, userID int) (View, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	sess := s.sessions.get(userID)
	if err := sess.seq.expect(StatePaymentConfirmation); err != nil {
		s.record(EventGoHome, err)
		return View{}, err
	}
	if err := s.carts.Settle(ctx, userID); err != nil {
		s.record(EventGoHome, err)
		s.log.Warn("cart not settled", zap.Int("user_id", userID), zap.Error(err))
		return View{}, err
	}
	if err := sess.seq.GoHome(); err != nil {
		s.record(EventGoHome, err)
		return View{}, err
	}
	s.sessions.drop(userID)
	s.record(EventGoHome, nil)

	return View{
		State:    StateHome,
		Items:    []cart.Line{},
		Navigate: homeTarget(),
	}, nil
}

func (s *Service) transition(ctx context.Context, userID int, name string, fn func(*session) error) (View, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	sess := s.sessions.get(userID)
	err := fn(sess)
	s.record(name, err)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, userID, sess)
}

func (s *Service) record(name string, err error) {
	metrics.CheckoutTransitions.WithLabelValues(name, metrics.Result(err)).Inc()
}

func newBookingCode() string {
	return "KNP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
