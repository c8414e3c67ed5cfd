package inmemstore

import (
	"context"
	"sync"

	"github.com/trezcool/masomo-setup/core/setup"
)

// Store is a ProgressStore kept in memory, for tests and one-shot runs.
type Store struct {
	mutex sync.RWMutex
	table map[string]string
}

var _ setup.ProgressStore = (*Store)(nil)

func New() *Store {
	return &Store{table: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.table[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, key := range keys {
		delete(s.table, key)
	}
	return nil
}

// Snapshot returns a copy of every stored key.
func (s *Store) Snapshot() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	m := make(map[string]string, len(s.table))
	for k, v := range s.table {
		m[k] = v
	}
	return m
}
