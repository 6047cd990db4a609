package points

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrRewardNotFound     = errors.New("reward not found")
	ErrInsufficientPoints = errors.New("not enough points")
)

type Repository interface {
	// Entries returns the user's ledger, newest first.
	Entries(ctx context.Context, userID int) ([]Entry, error)
	Insert(ctx context.Context, e Entry) (Entry, error)
	// Spend inserts a negative entry only if the user's balance covers it,
	// otherwise it returns ErrInsufficientPoints. Check and insert are atomic.
	Spend(ctx context.Context, e Entry) (Entry, error)
	// Rewards returns active rewards, cheapest first.
	Rewards(ctx context.Context) ([]Reward, error)
	RewardByID(ctx context.Context, id int) (Reward, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	rewards []Reward
	nextID  int
}

func NewInMemoryRepository(entries []Entry, rewards []Reward) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, e := range entries {
		r.entries = append(r.entries, e)
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
	}
	r.rewards = append(r.rewards, rewards...)
	return r
}

func (r *InMemoryRepository) Entries(_ context.Context, userID int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Insert(_ context.Context, e Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *InMemoryRepository) Spend(_ context.Context, e Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance := 0
	for _, x := range r.entries {
		if x.UserID == e.UserID {
			balance += x.Points
		}
	}
	if balance+e.Points < 0 {
		return Entry{}, ErrInsufficientPoints
	}
	e.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *InMemoryRepository) Rewards(_ context.Context) ([]Reward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Reward, 0, len(r.rewards))
	for _, rw := range r.rewards {
		if rw.Active {
			out = append(out, rw)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PointsRequired < out[j].PointsRequired })
	return out, nil
}

func (r *InMemoryRepository) RewardByID(_ context.Context, id int) (Reward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rw := range r.rewards {
		if rw.ID == id {
			return rw, nil
		}
	}
	return Reward{}, ErrRewardNotFound
}
