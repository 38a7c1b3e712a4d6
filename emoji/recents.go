package emoji

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// RecentStore tracks recently picked emoji.
type RecentStore interface {
	// Recents returns at most max records, most recent first.
	Recents(max int) []Record
	// Add records a pick, keeping at most max entries.
	Add(rec Record, max int) error
}

// AddOrUpdate moves rec to the front of list, removing any older entry with
// the same Key, and caps the result at max entries. A max <= 0 yields an
// empty list. list is not modified.
func AddOrUpdate(list []Record, rec Record, max int) []Record {
	if max <= 0 {
		return nil
	}
	out := make([]Record, 0, min(len(list)+1, max))
	out = append(out, rec.Clone())
	key := rec.Key()
	for _, r := range list {
		if len(out) >= max {
			break
		}
		if r.Key() == key {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// MemoryRecents is a RecentStore kept in process memory.
type MemoryRecents struct {
	mu    sync.Mutex
	items []Record
}

func NewMemoryRecents() *MemoryRecents { return &MemoryRecents{} }

func (s *MemoryRecents) Recents(max int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return headOf(s.items, max)
}

func (s *MemoryRecents) Add(rec Record, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = AddOrUpdate(s.items, rec, max)
	return nil
}

// FileRecents is a RecentStore persisted as a YAML list. The file is read
// lazily on first use and rewritten on every Add.
type FileRecents struct {
	path string

	mu     sync.Mutex
	loaded bool
	items  []Record
}

func NewFileRecents(path string) *FileRecents { return &FileRecents{path: path} }

func (s *FileRecents) Recents(max int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A missing or unreadable file starts an empty history.
	_ = s.loadLocked()
	return headOf(s.items, max)
}

func (s *FileRecents) Add(rec Record, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return err
	}
	s.items = AddOrUpdate(s.items, rec, max)

	data, err := yaml.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("emoji: encode recents: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("emoji: write recents: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("emoji: write recents: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("emoji: write recents: %w", err)
	}
	return nil
}

func (s *FileRecents) loadLocked() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("emoji: read recents: %w", err)
	}
	var items []Record
	if err := yaml.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("emoji: decode recents: %w", err)
	}
	s.items = items
	s.loaded = true
	return nil
}

func headOf(items []Record, max int) []Record {
	if max <= 0 || len(items) == 0 {
		return nil
	}
	if len(items) > max {
		items = items[:max]
	}
	return cloneRecords(items)
}
