// Package filestore persists the wizard progress in a JSON file, the CLI's local storage.
package filestore

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core/setup"
)

// Store keeps a flat string map in a JSON file. Every write replaces the file atomically.
type Store struct {
	path  string
	mutex sync.Mutex
}

var _ setup.ProgressStore = (*Store)(nil)

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}
	return &Store{path: path}, nil
}

func (s *Store) load() (map[string]string, error) {
	data, err := ioutil.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading store")
	}
	m := make(map[string]string)
	if len(data) == 0 {
		return m, nil
	}
	if err = json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decoding store %s", s.path)
	}
	return m, nil
}

func (s *Store) save(m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding store")
	}
	tmp, err := ioutil.TempFile(filepath.Dir(s.path), ".wizard-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing store")
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	var changed bool
	for _, key := range keys {
		if _, ok := m[key]; ok {
			delete(m, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(m)
}
