package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/atelier/storefront/internal/core/domain"
)

// sweepInterval bounds how often Save scans for expired sessions.
const sweepInterval = time.Minute

// MemoryStore is an in-process ports.SessionStore for development and tests.
// Sessions are stored as JSON so callers never share a pointer with the store.
// Expired sessions are removed on read and by a periodic sweep on Save.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	now       func() time.Time
	nextSweep time.Time
}

type memoryItem struct {
	raw       []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		delete(s.items, id)
		return nil, domain.ErrSessionNotFound
	}

	var sess domain.Session
	if err := json.Unmarshal(item.raw, &sess); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *domain.Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
		s.nextSweep = now.Add(sweepInterval)
	}

	item := memoryItem{raw: raw}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}
	s.items[sess.ID] = item
	return nil
}

// sweep drops every expired item. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, item := range s.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(s.items, id)
		}
	}
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
