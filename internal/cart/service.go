package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/keylock"
	"github.com/wichananm65/kunapet-backend/internal/metrics"
)

var (
	ErrInvalidItem        = errors.New("invalid cart item")
	ErrCheckoutInProgress = errors.New("cart is held by a checkout in progress")
)

// Service routes every cart mutation for a user through one serialized
// load-mutate-save cycle.
//
// A checkout puts the cart on hold from the payment snapshot until it is
// settled; mutations are refused in between so nothing unpaid is cleared.
type Service struct {
	repo  Repository
	log   *zap.Logger
	locks *keylock.Locker

	mu   sync.Mutex
	held map[int]bool
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, locks: keylock.New(), held: make(map[int]bool)}
}

func (s *Service) Get(ctx context.Context, userID int) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID int, item Item) (*Cart, error) {
	if item.ID == "" || item.UnitPrice.IsNegative() {
		return nil, ErrInvalidItem
	}
	return s.mutate(ctx, userID, "add", func(c *Cart) {
		c.AddItem(item)
	}, zap.String("product_id", item.ID))
}

func (s *Service) UpdateQuantity(ctx context.Context, userID int, id string, delta int) (*Cart, error) {
	return s.mutate(ctx, userID, "update_quantity", func(c *Cart) {
		c.UpdateQuantity(id, delta)
	}, zap.String("product_id", id), zap.Int("delta", delta))
}

func (s *Service) RemoveItem(ctx context.Context, userID int, id string) (*Cart, error) {
	return s.mutate(ctx, userID, "remove", func(c *Cart) {
		c.RemoveItem(id)
	}, zap.String("product_id", id))
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID int) error {
	if userID <= 0 {
		return ErrNotFound
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	if s.isHeld(userID) {
		return ErrCheckoutInProgress
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	metrics.CartOperations.WithLabelValues("clear").Inc()
	s.log.Info("cart cleared", zap.Int("user_id", userID))
	return nil
}

// Hold returns the cart as it will be charged and refuses further mutations
// until Release or Settle.
func (s *Service) Hold(ctx context.Context, userID int) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.setHeld(userID, true)
	return c, nil
}

// Release lifts a hold after a failed payment. The cart is untouched.
func (s *Service) Release(userID int) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	s.setHeld(userID, false)
}

// Settle empties a paid cart and lifts the hold. On error the hold stays.
func (s *Service) Settle(ctx context.Context, userID int) error {
	if userID <= 0 {
		return ErrNotFound
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.setHeld(userID, false)
	metrics.CartOperations.WithLabelValues("settle").Inc()
	s.log.Info("cart settled", zap.Int("user_id", userID))
	return nil
}

func (s *Service) mutate(ctx context.Context, userID int, op string, fn func(*Cart), fields ...zap.Field) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	if s.isHeld(userID) {
		return nil, ErrCheckoutInProgress
	}
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.repo.Save(ctx, userID, c); err != nil {
		return nil, err
	}

	metrics.CartOperations.WithLabelValues(op).Inc()
	s.log.Debug("cart updated", append(fields, zap.Int("user_id", userID), zap.String("op", op), zap.Int("lines", c.Len()))...)
	return c, nil
}

func (s *Service) isHeld(userID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[userID]
}

func (s *Service) setHeld(userID int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.held[userID] = true
		return
	}
	delete(s.held, userID)
}
