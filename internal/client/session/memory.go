package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the record for the lifetime of the process, the way a
// single browser tab keeps it in memory.
type MemoryStore struct {
	mu  sync.RWMutex
	rec Record
	listeners
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	s.mu.Lock()
	s.rec = rec.clone()
	s.mu.Unlock()

	s.notify(rec)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.rec = Record{}
	s.mu.Unlock()

	s.notify(Record{})
	return nil
}

func (s *MemoryStore) Subscribe(fn Listener) func() {
	return s.subscribe(fn)
}
