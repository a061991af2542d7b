// Package fixture serves recorded conversations from a JSON file over the
// same HTTP API as the voice-agent backend. It exists for local runs and
// tests of the viewer when the real backend is not available.
//
// The file holds a JSON array of full conversation records (the detail
// shape). It is re-read whenever it changes on disk.
package fixture

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/daviddao/voiceagent_viewer/internal/conversation"
)

// Store holds the parsed fixture file. Reload swaps the contents
// atomically; readers never observe a partial update.
type Store struct {
	path string

	mu       sync.RWMutex
	records  []conversation.Detail
	byID     map[string]int
	loadedAt time.Time
}

// Open reads the fixture file at path.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the fixture file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the file. On error the previous contents are kept.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", s.path, err)
	}
	var records []conversation.Detail
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse fixture %s: %w", s.path, err)
	}

	byID := make(map[string]int, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("parse fixture %s: record %d has no id", s.path, i)
		}
		if _, dup := byID[r.ID]; dup {
			return fmt.Errorf("parse fixture %s: duplicate id %q", s.path, r.ID)
		}
		byID[r.ID] = i
	}

	s.mu.Lock()
	s.records = records
	s.byID = byID
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// List returns the summaries newest first, as the backend orders them.
// Records with equal timestamps keep their file order.
func (s *Store) List() []conversation.Summary {
	s.mu.RLock()
	out := make([]conversation.Summary, len(s.records))
	for i, r := range s.records {
		out[i] = r.Summary
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b conversation.Summary) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (conversation.Detail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return conversation.Detail{}, false
	}
	return s.records[i], true
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LoadedAt returns when the file was last read successfully.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
