package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/keylock"
)

// Service provides business logic for provider endpoints.
type Service struct {
	repo  Repository
	log   *zap.Logger
	locks *keylock.Locker
}

func NewService(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, locks: keylock.New()}
}

func (s *Service) List(ctx context.Context, limit int) ([]Provider, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (Provider, error) {
	if id == "" {
		return Provider{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

const reviewsShown = 10

// Reviews returns the latest reviews of an existing provider.
func (s *Service) Reviews(ctx context.Context, providerID string) ([]Review, error) {
	if _, err := s.GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	return s.repo.Reviews(ctx, providerID, reviewsShown)
}

// ToggleDelivery flips delivery availability. Only the owning user may do it.
func (s *Service) ToggleDelivery(ctx context.Context, userID int, id string) (Provider, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Provider{}, err
	}
	if !p.OwnedBy(userID) {
		return Provider{}, ErrNotOwner
	}
	p.DeliveryAvailable = !p.DeliveryAvailable
	if err := s.repo.SetDelivery(ctx, id, p.DeliveryAvailable); err != nil {
		return Provider{}, err
	}
	s.log.Info("provider delivery toggled",
		zap.String("provider_id", id),
		zap.Bool("delivery_available", p.DeliveryAvailable),
	)
	return p, nil
}
