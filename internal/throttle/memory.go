package throttle

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Entries are never evicted; one
// timestamp per active user is small enough to keep.
type MemoryStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[string]time.Time)}
}

func (m *MemoryStore) Last(_ context.Context, user string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.last[user]
	return t, ok, nil
}

func (m *MemoryStore) Record(_ context.Context, user string, t time.Time, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[user] = t
	return nil
}
