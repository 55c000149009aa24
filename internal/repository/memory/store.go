// Package memory provides the in-memory record store. The store's lifetime is
// the process lifetime; nothing is shared across processes or restarts.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Store holds analyzed records keyed by content digest. One mutex covers every
// read-modify-write sequence, so no reader observes a partially-applied insert
// or delete. Enumeration order is insertion order.
type Store struct {
	mu      sync.RWMutex
	records map[string]record.Record
	order   []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string]record.Record)}
}

// Insert stores a new record. Fails with ErrAlreadyExists if a record with the
// same digest is present; the store is unchanged on failure.
func (s *Store) Insert(_ context.Context, rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID()]; ok {
		return fmt.Errorf("insert %s: %w", rec.ID(), domain.ErrAlreadyExists)
	}
	s.records[rec.ID()] = rec
	s.order = append(s.order, rec.ID())
	return nil
}

// Get returns the record with the given digest.
func (s *Store) Get(_ context.Context, id string) (record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return record.Record{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}

// Delete removes the record with the given digest.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, domain.ErrNotFound)
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns a snapshot of all records in insertion order.
func (s *Store) List(_ context.Context) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Ping reports store availability for health checks.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return fmt.Errorf("store not initialized")
	}
	return nil
}
