package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Store manages run records on disk.
type Store struct {
	baseDir string // defaults to ~/.rigup/runs
	now     func() time.Time
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// DefaultStore returns a Store at ~/.rigup/runs, creating the directory if needed.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".rigup", "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return NewStore(dir), nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

func (s *Store) runDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

func (s *Store) runPath(id string) string {
	return filepath.Join(s.runDir(id), "run.json")
}

// Create initialises a new run record on disk. The run ID is derived from
// the UTC start time; a monotonic suffix keeps IDs unique if two runs start
// within the same second.
func (s *Store) Create(paths HostPaths, totalSteps int) (*Run, error) {
	started := s.now().UTC()
	base := started.Format("20060102T150405Z")

	id := base
	for n := 2; ; n++ {
		err := os.MkdirAll(s.baseDir, 0o755)
		if err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", s.baseDir, err)
		}
		if err := os.Mkdir(s.runDir(id), 0o755); err == nil {
			break
		} else if !os.IsExist(err) {
			return nil, fmt.Errorf("mkdir run dir: %w", err)
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}

	run := &Run{
		ID:         id,
		HostPaths:  paths,
		TotalSteps: totalSteps,
		Status:     StatusPending,
		StartedAt:  started.Format(time.RFC3339),
	}
	if err := WriteJSON(s.runPath(id), run); err != nil {
		return nil, fmt.Errorf("write run.json: %w", err)
	}
	return run, nil
}

// Get reads a run record by ID.
func (s *Store) Get(id string) (*Run, error) {
	var run Run
	if err := ReadJSON(s.runPath(id), &run); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, err
	}
	return &run, nil
}

// Save persists the current state of a run record.
func (s *Store) Save(run *Run) error {
	return WriteJSON(s.runPath(run.ID), run)
}

// List returns all recorded runs, oldest first.
func (s *Store) List() ([]Run, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", s.baseDir, err)
	}

	var runs []Run
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		run, err := s.Get(entry.Name())
		if err != nil {
			continue // skip broken entries
		}
		runs = append(runs, *run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

// Latest returns the most recent run, or nil if none exist.
func (s *Store) Latest() (*Run, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}
