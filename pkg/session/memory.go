package session

import (
	"context"
	"sync"
	"time"

	"github.com/voxline/voxline/pkg/models"
)

type memoryEntry struct {
	state     *models.SessionState
	expiresAt time.Time
}

// MemoryStore is the in-process session table. A janitor goroutine sweeps
// expired entries so sessions abandoned by a provider disconnect do not
// leak for the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a store with the given TTL (DefaultTTL when
// non-positive) and starts the eviction janitor.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	go s.janitor()

	return s
}

func (s *MemoryStore) Get(_ context.Context, callID string) (*models.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[callID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	return entry.state, nil
}

func (s *MemoryStore) Put(_ context.Context, state *models.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[state.CallID] = memoryEntry{
		state:     state,
		expiresAt: time.Now().Add(s.ttl),
	}

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, callID)

	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.done)
	})

	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *MemoryStore) janitor() {
	interval := s.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()

			for callID, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, callID)
				}
			}

			s.mu.Unlock()
		}
	}
}
