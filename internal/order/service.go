package order

import (
	"context"
	"time"
)

// Service provides business logic for orders.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

// Create stores a paid order. Quantity is derived from the lines.
func (s *Service) Create(ctx context.Context, ord Order) (Order, error) {
	if ord.UserID <= 0 {
		return Order{}, ErrInvalidUser
	}
	if len(ord.Cart) == 0 {
		return Order{}, ErrEmptyOrder
	}

	ord.Quantity = 0
	for _, l := range ord.Cart {
		ord.Quantity += l.Quantity
	}
	if ord.Status == "" {
		ord.Status = StatusPaid
	}
	now := s.now().UTC().Format(time.RFC3339)
	if ord.CreatedAt == "" {
		ord.CreatedAt = now
	}
	ord.UpdatedAt = now
	return s.repo.Create(ctx, ord)
}

func (s *Service) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetForUser returns the order only when it belongs to userID.
func (s *Service) GetForUser(ctx context.Context, userID int, code string) (Order, error) {
	ord, err := s.repo.GetByBookingCode(ctx, code)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}
