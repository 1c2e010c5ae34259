package events

import (
	"sync"

	"github.com/gartstein/companyd/internal/company/domain"
)

// FallbackStore keeps events that could not be delivered to the broker.
// It is a bounded in-memory buffer: when full, the oldest event is evicted.
// Contents do not survive a restart.
type FallbackStore struct {
	mu     sync.Mutex
	events []domain.Event
	limit  int
}

// NewFallbackStore creates a store holding at most limit events.
func NewFallbackStore(limit int) *FallbackStore {
	if limit <= 0 {
		limit = 100
	}
	return &FallbackStore{limit: limit}
}

// Add parks an event, evicting the oldest when at capacity.
func (s *FallbackStore) Add(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) >= s.limit {
		s.events = s.events[1:]
	}
	s.events = append(s.events, event)
}

// Drain returns the parked events and empties the store.
func (s *FallbackStore) Drain() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// Len reports the number of parked events.
func (s *FallbackStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
