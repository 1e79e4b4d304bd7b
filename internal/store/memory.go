package store

import "github.com/brainwave-dev/atm/internal/model"

// Memory is an in-process Repository for tests.
type Memory struct {
	data model.Store

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewMemory returns a repository preloaded with a copy of s.
func NewMemory(s model.Store) *Memory {
	return &Memory{data: s.Clone()}
}

func (m *Memory) Load() (model.Store, error) {
	return m.data.Clone(), nil
}

func (m *Memory) Save(s model.Store) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = s.Clone()
	m.Saves++
	return nil
}

func (m *Memory) Close() error { return nil }
