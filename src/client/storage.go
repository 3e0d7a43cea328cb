package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"dive-server/src/store"
)

// Storage persists the retry queue between runs.
type Storage interface {
	Load() ([]store.Submission, error)
	Save(items []store.Submission) error
}

// FileStorage keeps the queue as a JSON array in one file.
type FileStorage struct {
	Path string
}

// Load returns the saved queue. A missing or unreadable file is an empty
// queue.
func (f FileStorage) Load() ([]store.Submission, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []store.Submission
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[WARN] Discarding corrupt score queue %s: %v", f.Path, err)
		return nil, nil
	}
	return items, nil
}

// Save writes the queue through a temp file so a crash never leaves half a
// file behind.
func (f FileStorage) Save(items []store.Submission) error {
	if items == nil {
		items = []store.Submission{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create queue dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// MemoryStorage keeps the queue for the life of the process.
type MemoryStorage struct {
	mu    sync.Mutex
	items []store.Submission
}

func (m *MemoryStorage) Load() ([]store.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Submission(nil), m.items...), nil
}

func (m *MemoryStorage) Save(items []store.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]store.Submission(nil), items...)
	return nil
}
