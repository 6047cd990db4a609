package cart

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("user not found")
)

// Repository stores one cart per user. Get returns an empty cart when the
// user has none yet.
type Repository interface {
	Get(ctx context.Context, userID int) (*Cart, error)
	Save(ctx context.Context, userID int, c *Cart) error
	Delete(ctx context.Context, userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int][]Line
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int][]Line)}
}

func (r *InMemoryRepository) Get(_ context.Context, userID int) (*Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return FromLines(r.carts[userID]), nil
}

func (r *InMemoryRepository) Save(_ context.Context, userID int, c *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = c.Lines()
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
