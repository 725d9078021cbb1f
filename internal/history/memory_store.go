package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore implements Store in memory. Used by tests and when the ledger
// is disabled.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]Run
	order   []string
	entries map[string][]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]Run),
		entries: make(map[string][]Entry),
	}
}

func (s *MemoryStore) StartRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	return nil
}

func (s *MemoryStore) AppendEntry(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[e.RunID]; !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, e.RunID)
	}
	s.entries[e.RunID] = append(s.entries[e.RunID], e)
	return nil
}

func (s *MemoryStore) FinishRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.runs[run.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	cur.Status = run.Status
	cur.Message = run.Message
	cur.Generated = run.Generated
	cur.Skipped = run.Skipped
	cur.FinishedAt = run.FinishedAt
	s.runs[run.ID] = cur
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Entries(_ context.Context, runID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	out := make([]Entry, len(s.entries[runID]))
	copy(out, s.entries[runID])
	return out, nil
}
