package order

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrEmptyOrder  = errors.New("order has no lines")
	ErrInvalidUser = errors.New("invalid user")
)

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID int) ([]Order, error)
	GetByBookingCode(ctx context.Context, code string) (Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(_ context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord.OrderID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByBookingCode(_ context.Context, code string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.BookingCode == code {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}
