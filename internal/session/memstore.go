package session

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory.  It backs local development
// (session.store: memory) and tests.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]Record
}

func NewMemoryStore(recs ...Record) *MemoryStore {
	m := &MemoryStore{recs: make(map[string]Record, len(recs))}
	for _, r := range recs {
		m.recs[r.ID] = r
	}
	return m
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemoryStore) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	m.recs[rec.ID] = *rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, rec *Record) error {
	m.mu.Lock()
	delete(m.recs, rec.ID)
	m.mu.Unlock()
	return nil
}
