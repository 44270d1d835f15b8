// Package tracks is the durable side channel for user-assigned tracks. It is
// the only state that survives a destructive re-import: assignments are
// written out keyed by record ID before the record set is cleared and read
// back once it is rebuilt.
package tracks

import (
	"context"
	"sync"
)

// Store persists track assignments keyed by deterministic record ID. Save
// replaces the stored set wholesale.
type Store interface {
	Save(ctx context.Context, assignments map[string]string) error
	Load(ctx context.Context) (map[string]string, error)
}

// MemoryStore is the in-process implementation, used in tests and when no
// database is configured.
type MemoryStore struct {
	mu          sync.Mutex
	assignments map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assignments: make(map[string]string)}
}

func (s *MemoryStore) Save(_ context.Context, assignments map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = make(map[string]string, len(assignments))
	for id, track := range assignments {
		s.assignments[id] = track
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.assignments))
	for id, track := range s.assignments {
		out[id] = track
	}
	return out, nil
}
