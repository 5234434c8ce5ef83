package statestore

import (
	"context"
	"sync"

	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/state"
)

// MemoryStore keeps the last saved snapshot in memory.
type MemoryStore struct {
	mu    sync.Mutex
	view  model.StateView
	saved bool
	saves int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (model.StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return model.StateView{}, state.ErrNotFound
	}
	return s.view.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, v model.StateView) error {
	s.mu.Lock()
	s.view = v.Clone()
	s.saved = true
	s.saves++
	s.mu.Unlock()
	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error { return nil }

// NopStore never finds a blob and drops every write.
type NopStore struct{}

func (NopStore) Load(context.Context) (model.StateView, error) {
	return model.StateView{}, state.ErrNotFound
}

func (NopStore) Save(context.Context, model.StateView) error { return nil }
func (NopStore) Close() error                                { return nil }
