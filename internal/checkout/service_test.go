package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/cart"
	"github.com/wichananm65/kunapet-backend/internal/event"
	"github.com/wichananm65/kunapet-backend/internal/navigation"
	"github.com/wichananm65/kunapet-backend/internal/order"
	"github.com/wichananm65/kunapet-backend/internal/provider"
	"github.com/wichananm65/kunapet-backend/internal/services"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*event.Event
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, e *event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type failingOrders struct{}

func (failingOrders) Create(context.Context, order.Order) (order.Order, error) {
	return order.Order{}, errors.New("db down")
}

type fixture struct {
	svc       *Service
	carts     *cart.Service
	orders    *order.InMemoryRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T, gw Gateway) fixture {
	t.Helper()
	carts := cart.NewService(cart.NewInMemoryRepository(), zap.NewNop())
	orders := order.NewInMemoryRepository()
	pub := &recordingPublisher{}
	owner := 3
	providers := provider.NewService(provider.NewInMemoryRepository([]provider.Provider{
		{ID: "vet-1", UserID: &owner, BusinessName: "Clinica Patitas"},
	}), zap.NewNop())
	catalog := services.NewService(services.NewInMemoryRepository([]services.PetService{
		{ID: "bath", ProviderID: "vet-1", Category: services.CategoryGrooming, Name: "Baño Completo", Price: decimal.NewFromInt(45), Active: true},
		{ID: "vacuna", ProviderID: "vet-1", Category: services.CategoryVeterinary, Name: "Vacunación", Price: decimal.NewFromInt(35), Active: true},
		{ID: "retired", ProviderID: "vet-1", Category: services.CategoryVeterinary, Name: "Laboratorio", Price: decimal.NewFromInt(80)},
		{ID: "walk", ProviderID: "walker-2", Category: services.CategoryWalking, Name: "Paseo Grupal", Price: decimal.NewFromInt(20), Active: true},
	}))

	svc := NewService(Deps{
		Carts:     carts,
		Orders:    order.NewService(orders),
		Providers: providers,
		Services:  catalog,
		Gateway:   gw,
		Publisher: pub,
		Log:       zap.NewNop(),
	})
	return fixture{svc: svc, carts: carts, orders: orders, publisher: pub}
}

func (f fixture) fill(t *testing.T, userID int) {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, userID, cart.Item{ID: "a", Name: "Kibble", UnitPrice: decimal.NewFromInt(20)})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, userID, cart.Item{ID: "b", Name: "Toy", UnitPrice: decimal.NewFromInt(15)})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, userID, cart.Item{ID: "b", Name: "Toy", UnitPrice: decimal.NewFromInt(15)})
	require.NoError(t, err)
}

func TestConfirmThenGoHomeEmptiesCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))
	f.fill(t, 1)

	v, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatePaymentMethodSelection, v.State)
	pm, ok := v.Navigate.Target.(navigation.PaymentMethods)
	require.True(t, ok)
	assert.Equal(t, "60", pm.Total.String())

	_, err = f.svc.SelectProvider(ctx, 1, SelectionContext{ProviderID: "vet-1", ServiceID: "bath"})
	require.NoError(t, err)

	v, err = f.svc.Confirm(ctx, 1, &PaymentSelection{Method: MethodPlin, Reference: "op-77"})
	require.NoError(t, err)
	require.Equal(t, StatePaymentConfirmation, v.State)
	require.NotNil(t, v.Receipt)
	assert.Regexp(t, `^KNP-[0-9A-F]{8}$`, v.Receipt.BookingCode)
	assert.Equal(t, "60", v.Receipt.Totals.Total.String())
	assert.Equal(t, "vet-1", v.Receipt.Context.ProviderID)
	assert.Equal(t, navigation.PaymentConfirmation{BookingCode: v.Receipt.BookingCode}, v.Navigate.Target)

	ord, err := f.orders.GetByBookingCode(ctx, v.Receipt.BookingCode)
	require.NoError(t, err)
	assert.Equal(t, 3, ord.Quantity)
	assert.Equal(t, "plin", ord.PaymentMethod)
	require.NotNil(t, ord.PaymentReference)
	assert.Equal(t, "op-77", *ord.PaymentReference)
	require.NotNil(t, ord.ServiceID)
	assert.Equal(t, "bath", *ord.ServiceID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, event.TopicCheckoutCompleted, f.publisher.topics[0])
	assert.Equal(t, v.Receipt.BookingCode, f.publisher.events[0].AggregateID)

	v, err = f.svc.GoHome(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateHome, v.State)

	c, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	v, err = f.svc.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateCart, v.State, "a new session starts at the cart")
	assert.Equal(t, navigation.Shop{}, v.Navigate.Target)
	assert.Equal(t, SelectionContext{}, v.Context)
}

func TestProceedWithEmptyCart(t *testing.T) {
	f := newFixture(t, NewSimulatedGateway(0))
	_, err := f.svc.Proceed(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmWithoutMethod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	_, err = f.svc.SelectMethod(ctx, 1, PaymentSelection{Method: MethodCash})
	require.NoError(t, err)
	v, err := f.svc.Confirm(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodCash, v.Receipt.Method)
}

func TestConfirmCartEmptiedAfterProceed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.Clear(ctx, 1))

	_, err = f.svc.Confirm(ctx, 1, &PaymentSelection{Method: MethodCard})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

// blockingGateway holds every charge until release is closed.
type blockingGateway struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *blockingGateway) Charge(ctx context.Context, _ Charge) (Authorization, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return Authorization{Reference: "OK"}, nil
	case <-ctx.Done():
		return Authorization{}, ctx.Err()
	}
}

func TestDoubleConfirmIsRefused(t *testing.T) {
	ctx := context.Background()
	gw := &blockingGateway{started: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, gw)
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)

	sel := &PaymentSelection{Method: MethodCard}
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Confirm(ctx, 1, sel)
		done <- err
	}()
	<-gw.started

	v, err := f.svc.View(ctx, 1)
	require.NoError(t, err)
	assert.True(t, v.Processing)

	_, err = f.svc.Confirm(ctx, 1, sel)
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	_, err = f.svc.Back(ctx, 1)
	assert.ErrorIs(t, err, ErrPaymentInProgress)

	close(gw.release)
	require.NoError(t, <-done)

	orders, err := f.orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestDeclinedPaymentReturnsToSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &scriptedGateway{errs: []error{ErrPaymentDeclined}})
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 1, &PaymentSelection{Method: MethodCard})
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	v, err := f.svc.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatePaymentMethodSelection, v.State)
	assert.False(t, v.Processing)
	assert.Equal(t, 3, v.ItemCount, "cart untouched")
	_, err = f.carts.UpdateQuantity(ctx, 1, "a", 1)
	require.NoError(t, err, "hold lifted after a decline")

	v, err = f.svc.Confirm(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, StatePaymentConfirmation, v.State)
}

func TestOrderWriteFailureAbortsConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))
	f.svc.orders = failingOrders{}
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 1, &PaymentSelection{Method: MethodCard})
	require.Error(t, err)

	v, err := f.svc.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatePaymentMethodSelection, v.State)
	assert.False(t, v.Processing)
	assert.Empty(t, f.publisher.events)
}

func TestSelectProvider(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))

	_, err := f.svc.SelectProvider(ctx, 1, SelectionContext{ProviderID: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	v, err := f.svc.SelectProvider(ctx, 1, SelectionContext{ProviderID: "vet-1", ServiceID: "vacuna"})
	require.NoError(t, err)
	assert.Equal(t, "vacuna", v.Context.ServiceID)
}

func TestSecurityDetour(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)

	v, err := f.svc.ViewSecurity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, navigation.SecurityInfo{}, v.Navigate.Target)

	v, err = f.svc.Back(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatePaymentMethodSelection, v.State)

	v, err = f.svc.Back(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateCart, v.State)
	assert.Equal(t, navigation.Cart{}, v.Navigate.Target)
}

func TestSelectService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))

	_, err := f.svc.SelectProvider(ctx, 1, SelectionContext{ServiceID: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownService)

	_, err = f.svc.SelectProvider(ctx, 1, SelectionContext{ServiceID: "retired"})
	assert.ErrorIs(t, err, ErrUnknownService, "inactive services cannot be booked")

	_, err = f.svc.SelectProvider(ctx, 1, SelectionContext{ProviderID: "vet-1", ServiceID: "walk"})
	assert.ErrorIs(t, err, ErrServiceMismatch)

	v, err := f.svc.SelectProvider(ctx, 1, SelectionContext{ServiceID: "vacuna"})
	require.NoError(t, err)
	assert.Equal(t, SelectionContext{ProviderID: "vet-1", ServiceID: "vacuna"}, v.Context)
}

// flakyCarts fails Settle a fixed number of times before delegating.
type flakyCarts struct {
	*cart.Service
	failures int
}

func (c *flakyCarts) Settle(ctx context.Context, userID int) error {
	if c.failures > 0 {
		c.failures--
		return errors.New("redis: connection refused")
	}
	return c.Service.Settle(ctx, userID)
}

func TestGoHomeCanBeRetriedAfterCartFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewSimulatedGateway(0))
	f.svc.carts = &flakyCarts{Service: f.carts, failures: 1}
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, 1, &PaymentSelection{Method: MethodCard})
	require.NoError(t, err)

	_, err = f.svc.GoHome(ctx, 1)
	require.Error(t, err)

	v, err := f.svc.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatePaymentConfirmation, v.State, "still on the confirmation screen")
	require.NotNil(t, v.Receipt)

	v, err = f.svc.GoHome(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateHome, v.State)

	c, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	v, err = f.svc.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateCart, v.State)
}

func TestCartIsHeldFromPaymentUntilHome(t *testing.T) {
	ctx := context.Background()
	gw := &blockingGateway{started: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, gw)
	f.fill(t, 1)
	_, err := f.svc.Proceed(ctx, 1)
	require.NoError(t, err)
	_, err = f.svc.SelectMethod(ctx, 1, PaymentSelection{Method: MethodCard})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Confirm(ctx, 1, nil)
		done <- err
	}()
	<-gw.started

	collar := cart.Item{ID: "c", Name: "Collar", UnitPrice: decimal.NewFromInt(12)}
	_, err = f.carts.AddItem(ctx, 1, collar)
	assert.ErrorIs(t, err, cart.ErrCheckoutInProgress)

	_, err = f.svc.Confirm(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	_, err = f.carts.AddItem(ctx, 1, collar)
	assert.ErrorIs(t, err, cart.ErrCheckoutInProgress, "a refused confirm does not lift the hold")

	close(gw.release)
	require.NoError(t, <-done)

	_, err = f.carts.AddItem(ctx, 1, collar)
	assert.ErrorIs(t, err, cart.ErrCheckoutInProgress)

	_, err = f.svc.GoHome(ctx, 1)
	require.NoError(t, err)

	c, err := f.carts.AddItem(ctx, 1, collar)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
