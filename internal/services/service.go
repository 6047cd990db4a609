package services

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns active services, cheapest first. An empty category lists all.
func (s *Service) List(ctx context.Context, category string, limit int) ([]PetService, error) {
	if category != "" && !validCategory(category) {
		return nil, ErrUnknownCategory
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.repo.ListByCategory(ctx, category, limit)
}

func (s *Service) ForProvider(ctx context.Context, providerID string) ([]PetService, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (PetService, error) {
	if id == "" {
		return PetService{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
