package memory

import (
	"context"
	"fmt"
	"sync"

	"estoque/internal/adapter"
	"estoque/internal/errors"
)

// Store keeps records in a map. It is the default backend and the test
// substitute for the real ones.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]any
	nextID  int
}

func New() *Store {
	return &Store{
		records: make(map[string]map[string]any),
		nextID:  1,
	}
}

func (s *Store) List(_ context.Context) ([]adapter.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]adapter.Record, 0, len(s.records))
	for id, fields := range s.records {
		list = append(list, adapter.Record{ID: id, Fields: cloneFields(fields)})
	}
	return list, nil
}

func (s *Store) Create(_ context.Context, rec adapter.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.ID
	if id == "" {
		id = fmt.Sprintf("mem-%d", s.nextID)
		s.nextID++
	}
	if _, exists := s.records[id]; exists {
		return "", errors.NewDuplicateIDError(id)
	}
	s.records[id] = cloneFields(rec.Fields)
	return id, nil
}

func (s *Store) Update(_ context.Context, id string, rec adapter.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return errors.NewNotFoundError(fmt.Sprintf("record %q not found", id))
	}
	s.records[id] = cloneFields(rec.Fields)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

func cloneFields(fields map[string]any) map[string]any {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return cp
}
