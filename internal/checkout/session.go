package checkout

import (
	"sync"
	"time"

	"github.com/wichananm65/kunapet-backend/internal/cart"
)

// SelectionContext is the provider/service the user picked before checkout.
type SelectionContext struct {
	ProviderID string `json:"providerId,omitempty"`
	ServiceID  string `json:"serviceId,omitempty"`
}

// Receipt is shown on the payment confirmation screen.
type Receipt struct {
	BookingCode string           `json:"bookingCode"`
	Method      Method           `json:"method"`
	Reference   string           `json:"reference,omitempty"`
	Lines       []cart.Line      `json:"lines"`
	Totals      cart.Totals      `json:"totals"`
	OrderID     int              `json:"orderId"`
	PaidAt      time.Time        `json:"paidAt"`
	Context     SelectionContext `json:"context"`
}

type session struct {
	seq     *Sequencer
	context SelectionContext
	receipt *Receipt
}

func newSession() *session {
	return &session{seq: NewSequencer()}
}

// sessionStore holds one live checkout per user. Callers serialize access per
// user; the mutex only guards the map.
type sessionStore struct {
	mu     sync.Mutex
	byUser map[int]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{byUser: make(map[int]*session)}
}

func (s *sessionStore) get(userID int) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUser[userID]
	if !ok {
		sess = newSession()
		s.byUser[userID] = sess
	}
	return sess
}

func (s *sessionStore) drop(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}
