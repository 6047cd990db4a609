package membership

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound    = errors.New("membership not found")
	ErrInvalidPlan = errors.New("plan must be monthly or annual")
)

type Repository interface {
	Get(ctx context.Context, userID int) (Membership, error)
	Upsert(ctx context.Context, m Membership) error
}

type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[int]Membership
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[int]Membership)}
}

func (r *InMemoryRepository) Get(_ context.Context, userID int) (Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[userID]
	if !ok {
		return Membership{}, ErrNotFound
	}
	return m, nil
}

func (r *InMemoryRepository) Upsert(_ context.Context, m Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.UserID] = m
	return nil
}
