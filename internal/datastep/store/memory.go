package store

import (
	"context"
	"sync"

	"github.com/adriankhoo/aperture-data-studio-sdk/internal/datastep/entity"
	"github.com/adriankhoo/aperture-data-studio-sdk/internal/pkg/pkgerror"
)

// InMemoryStore keeps run records for the lifetime of the process. Step runs
// are ephemeral diagnostics, so nothing is persisted.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*runRecord
}

type runRecord struct {
	mu   sync.RWMutex
	meta entity.RunMeta
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		runs: make(map[string]*runRecord),
	}
}

func (s *InMemoryStore) CreateRun(_ context.Context, meta entity.RunMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[meta.ID]; exists {
		return pkgerror.NewBusiness("run already exists", pkgerror.CodeConflict)
	}

	s.runs[meta.ID] = &runRecord{meta: meta}

	return nil
}

func (s *InMemoryStore) UpdateRun(_ context.Context, runID string, fn func(meta *entity.RunMeta)) error {
	rec, err := s.get(runID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

func (s *InMemoryStore) GetRun(_ context.Context, runID string) (entity.RunMeta, error) {
	rec, err := s.get(runID)
	if err != nil {
		return entity.RunMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.meta, nil
}

func (s *InMemoryStore) get(runID string) (*runRecord, error) {
	s.mu.RLock()
	rec, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
