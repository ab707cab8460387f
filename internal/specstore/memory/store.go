// Package memory provides an in-memory specstore.Store for tests and local
// development. Data is held in process memory and lost on restart.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"modcraft/internal/specstore"
)

type workspaceLog struct {
	mu      sync.Mutex
	history []specstore.SpecVersion
}

// Store implements specstore.Store using an in-process map keyed by
// workspace id. Each workspace's writes serialize under its own mutex, so
// concurrent workspaces do not block each other (spec.md §5).
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*workspaceLog
}

// New returns an in-memory Store with no workspaces. Ready to use
// immediately.
func New() *Store {
	return &Store{workspaces: make(map[string]*workspaceLog)}
}

func (s *Store) logFor(workspaceID string, create bool) *workspaceLog {
	s.mu.RLock()
	log, ok := s.workspaces[workspaceID]
	s.mu.RUnlock()
	if ok || !create {
		return log
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok = s.workspaces[workspaceID]; ok {
		return log
	}
	log = &workspaceLog{}
	s.workspaces[workspaceID] = log
	return log
}

// Initialize establishes version 1 for workspaceID.
func (s *Store) Initialize(_ context.Context, workspaceID string, seed specstore.ModSpec) (int, error) {
	log := s.logFor(workspaceID, true)
	log.mu.Lock()
	defer log.mu.Unlock()

	if len(log.history) != 0 {
		return 0, specstore.SpecExists
	}
	hash, err := specstore.ContentHash(seed)
	if err != nil {
		return 0, err
	}
	log.history = append(log.history, specstore.SpecVersion{
		WorkspaceID: workspaceID,
		Version:     1,
		Timestamp:   time.Now().UTC(),
		ContentHash: hash,
		Notes:       "initialize",
		Spec:        seed,
	})
	return 1, nil
}

// ApplyDelta applies delta to workspaceID's current spec and appends a new
// version.
func (s *Store) ApplyDelta(_ context.Context, workspaceID string, delta specstore.SpecDelta) (specstore.ModSpec, int, error) {
	log := s.logFor(workspaceID, false)
	if log == nil || len(log.history) == 0 {
		return specstore.ModSpec{}, 0, specstore.NoCurrentSpec
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.history) == 0 {
		return specstore.ModSpec{}, 0, specstore.NoCurrentSpec
	}

	current := log.history[len(log.history)-1].Spec
	next, err := specstore.ApplyDelta(current, delta)
	if err != nil {
		return specstore.ModSpec{}, 0, err
	}

	hash, err := specstore.ContentHash(next)
	if err != nil {
		return specstore.ModSpec{}, 0, err
	}
	version := log.history[len(log.history)-1].Version + 1
	d := delta
	log.history = append(log.history, specstore.SpecVersion{
		WorkspaceID: workspaceID,
		Version:     version,
		Timestamp:   time.Now().UTC(),
		ContentHash: hash,
		Delta:       &d,
		Spec:        next,
	})
	return next, version, nil
}

// GetCurrent returns workspaceID's current spec and version.
func (s *Store) GetCurrent(_ context.Context, workspaceID string) (specstore.ModSpec, int, error) {
	log := s.logFor(workspaceID, false)
	if log == nil {
		return specstore.ModSpec{}, 0, specstore.NoCurrentSpec
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.history) == 0 {
		return specstore.ModSpec{}, 0, specstore.NoCurrentSpec
	}
	latest := log.history[len(log.history)-1]
	return latest.Spec, latest.Version, nil
}

// GetVersion returns the spec recorded at version n.
func (s *Store) GetVersion(_ context.Context, workspaceID string, n int) (specstore.ModSpec, error) {
	log := s.logFor(workspaceID, false)
	if log == nil {
		return specstore.ModSpec{}, specstore.VersionNotFound
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	for _, v := range log.history {
		if v.Version == n {
			return v.Spec, nil
		}
	}
	return specstore.ModSpec{}, specstore.VersionNotFound
}

// Rollback loads the spec at version n and writes it as a new version.
func (s *Store) Rollback(ctx context.Context, workspaceID string, n int) (int, error) {
	target, err := s.GetVersion(ctx, workspaceID, n)
	if err != nil {
		return 0, err
	}

	log := s.logFor(workspaceID, false)
	log.mu.Lock()
	defer log.mu.Unlock()

	hash, err := specstore.ContentHash(target)
	if err != nil {
		return 0, err
	}
	version := log.history[len(log.history)-1].Version + 1
	log.history = append(log.history, specstore.SpecVersion{
		WorkspaceID: workspaceID,
		Version:     version,
		Timestamp:   time.Now().UTC(),
		ContentHash: hash,
		Notes:       "rollback to version " + strconv.Itoa(n),
		Spec:        target,
	})
	return version, nil
}
