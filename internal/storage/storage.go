package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/no-hive/solidity-learning/internal/hardhat"
	"github.com/no-hive/solidity-learning/internal/tasks"
)

// ErrNotComposed indicates no configuration has been stored yet.
var ErrNotComposed = errors.New("configuration has not been composed yet")

// Snapshot is one composed configuration together with the tasks registered
// while composing it.
type Snapshot struct {
	Config     hardhat.Config
	Tasks      []tasks.Task
	Plugins    []string
	Extensions []string
	ComposedAt time.Time
}

// Storage provides access to the composed configuration served over HTTP.
type Storage interface {
	GetSnapshot() (Snapshot, error)
	SetSnapshot(snapshot Snapshot) error
}

// MemoryStorage keeps the snapshot in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// GetSnapshot returns the stored snapshot. Slices are copied; the
// configuration maps are shared and must be treated as read-only.
func (s *MemoryStorage) GetSnapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return Snapshot{}, ErrNotComposed
	}
	return cloneSnapshot(*s.snapshot), nil
}

// SetSnapshot replaces the stored snapshot.
func (s *MemoryStorage) SetSnapshot(snapshot Snapshot) error {
	cloned := cloneSnapshot(snapshot)

	s.mu.Lock()
	s.snapshot = &cloned
	s.mu.Unlock()

	return nil
}

func cloneSnapshot(src Snapshot) Snapshot {
	out := src
	out.Tasks = make([]tasks.Task, len(src.Tasks))
	for i, task := range src.Tasks {
		task.Deps = append([]string(nil), task.Deps...)
		out.Tasks[i] = task
	}
	out.Plugins = append([]string(nil), src.Plugins...)
	out.Extensions = append([]string(nil), src.Extensions...)
	out.Config.Exposed.Exclude = append([]string(nil), src.Config.Exposed.Exclude...)
	return out
}
