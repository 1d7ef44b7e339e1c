package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded processing run
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	Mode       string    `json:"mode" yaml:"mode"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Files      []string  `json:"files" yaml:"files"`
	Outputs    []string  `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRun starts a run record with a fresh ID
func NewRun(mode string, files []string) Run {
	return Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
		Files:     files,
	}
}

// Succeeded reports whether the run ended without an error
func (r Run) Succeeded() bool {
	return r.Error == ""
}

// Store persists the run ledger
type Store interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context) ([]Run, error)
	Close() error
}

// MemoryStore keeps runs for the lifetime of the process
type MemoryStore struct {
	runs map[string]Run
	mu   sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]Run),
	}
}

func (s *MemoryStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) Get(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, exists := s.runs[id]
	return run, exists
}

// List returns the runs oldest first
func (s *MemoryStore) List(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	sortRuns(result)
	return result, nil
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}

func (s *MemoryStore) Close() error { return nil }

func sortRuns(runs []Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
}
