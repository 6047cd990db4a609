package services

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound        = errors.New("service not found")
	ErrUnknownCategory = errors.New("unknown service category")
)

// Repository reads services. List methods return active rows only.
type Repository interface {
	ListByCategory(ctx context.Context, category string, limit int) ([]PetService, error)
	ListByProvider(ctx context.Context, providerID string) ([]PetService, error)
	GetByID(ctx context.Context, id string) (PetService, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []PetService
}

func NewInMemoryRepository(seed []PetService) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]PetService, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) ListByCategory(_ context.Context, category string, limit int) ([]PetService, error) {
	return r.filter(func(s PetService) bool {
		return category == "" || s.Category == category
	}, limit), nil
}

func (r *InMemoryRepository) ListByProvider(_ context.Context, providerID string) ([]PetService, error) {
	return r.filter(func(s PetService) bool { return s.ProviderID == providerID }, 0), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (PetService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.storage {
		if s.ID == id {
			return s, nil
		}
	}
	return PetService{}, ErrNotFound
}

func (r *InMemoryRepository) filter(keep func(PetService) bool, limit int) []PetService {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]PetService, 0)
	for _, s := range r.storage {
		if s.Active && keep(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
