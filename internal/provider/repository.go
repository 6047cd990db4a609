package provider

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("provider not found")
	ErrNotOwner = errors.New("provider belongs to another user")
)

// Repository provides access to provider rows.
type Repository interface {
	List(ctx context.Context, limit int) ([]Provider, error)
	GetByID(ctx context.Context, id string) (Provider, error)
	SetDelivery(ctx context.Context, id string, available bool) error
	// Reviews returns the provider's reviews, newest first.
	Reviews(ctx context.Context, providerID string, limit int) ([]Review, error)
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	providers []Provider
	reviews   []Review
}

func NewInMemoryRepository(seed []Provider) *InMemoryRepository {
	return &InMemoryRepository{providers: append([]Provider(nil), seed...)}
}

// WithReviews adds seed reviews.
func (r *InMemoryRepository) WithReviews(reviews ...Review) *InMemoryRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, reviews...)
	return r
}

func (r *InMemoryRepository) List(_ context.Context, limit int) ([]Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.providers)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Provider, n)
	copy(out, r.providers[:n])
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return Provider{}, ErrNotFound
}

func (r *InMemoryRepository) SetDelivery(_ context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.providers {
		if r.providers[i].ID == id {
			r.providers[i].DeliveryAvailable = available
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Reviews(_ context.Context, providerID string, limit int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.ProviderID == providerID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
