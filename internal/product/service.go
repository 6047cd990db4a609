package product

import "context"

// ServiceInterface is what other packages need from the catalog.
type ServiceInterface interface {
	GetByID(ctx context.Context, id string) (Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
