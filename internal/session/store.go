package session

import (
	"sync"

	"buyforyou-bot/internal/order"
)

// Store keeps one order draft per chat in process memory.
type Store struct {
	mu     sync.RWMutex
	drafts map[int64]order.Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[int64]order.Draft)}
}

// Get returns a copy of the chat's draft, or a fresh idle draft.
func (s *Store) Get(chatID int64) order.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[chatID]
	if !ok {
		return order.NewDraft()
	}
	return d.Clone()
}

func (s *Store) Save(chatID int64, d order.Draft) {
	s.mu.Lock()
	s.drafts[chatID] = d.Clone()
	s.mu.Unlock()
}

func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	delete(s.drafts, chatID)
	s.mu.Unlock()
}

// Update runs fn on the chat's draft and stores the result. Concurrent
// updates of the same store are applied one at a time.
func (s *Store) Update(chatID int64, fn func(order.Draft) order.Draft) order.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[chatID]
	if !ok {
		d = order.NewDraft()
	}

	next := fn(d.Clone())
	if next.Step == order.StepIdle && len(next.Items) == 0 && next.Contact == "" {
		// nothing worth keeping
		delete(s.drafts, chatID)
	} else {
		s.drafts[chatID] = next.Clone()
	}
	return next
}

// Len reports how many chats currently hold a draft.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
