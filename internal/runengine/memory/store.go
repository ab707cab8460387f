// Package memory provides an in-process runengine.Store backed by a
// mutex-guarded map, grounded on the same pattern internal/eventbus/memory
// uses for its per-run event log.
package memory

import (
	"context"
	"sync"

	"modcraft/internal/runengine"
)

type Store struct {
	mu   sync.RWMutex
	runs map[string]runengine.Run
}

func New() *Store {
	return &Store{runs: map[string]runengine.Run{}}
}

func (s *Store) Save(ctx context.Context, run runengine.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *Store) Get(ctx context.Context, runID string) (runengine.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return runengine.Run{}, &runengine.NotFoundError{RunID: runID}
	}
	return run, nil
}
