package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/pkg/logger"
)

// Store persists the watch list as a flat JSON file.
// All watch-list file access goes through this store.
type Store struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewStore creates a store backed by the given file path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log,
	}
}

// Load reads all watch items. A missing file is an empty list, not an error.
func (s *Store) Load() ([]contracts.WatchItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends a new watch item and saves.
func (s *Store) Add(item contracts.WatchItem) error {
	if item.Code == "" {
		return fmt.Errorf("watch item code must not be empty")
	}
	if item.EntryPrice <= 0 {
		return fmt.Errorf("watch item entry price must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	for _, existing := range items {
		if existing.Code == item.Code {
			return fmt.Errorf("code %s is already on the watch list", item.Code)
		}
	}

	items = append(items, item)
	return s.save(items)
}

// Remove deletes the watch item with the given code and saves.
func (s *Store) Remove(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	kept := make([]contracts.WatchItem, 0, len(items))
	for _, item := range items {
		if item.Code != code {
			kept = append(kept, item)
		}
	}

	if len(kept) == len(items) {
		return fmt.Errorf("code %s is not on the watch list", code)
	}

	return s.save(kept)
}

func (s *Store) load() ([]contracts.WatchItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []contracts.WatchItem{}, nil
		}
		return nil, fmt.Errorf("read watch list: %w", err)
	}

	var items []contracts.WatchItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse watch list: %w", err)
	}

	return items, nil
}

// save writes the list via a temp file so a crash mid-write cannot corrupt it.
func (s *Store) save(items []contracts.WatchItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal watch list: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write watch list: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace watch list: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  filepath.Base(s.path),
		"count": len(items),
	}).Debug("Watch list saved")

	return nil
}
