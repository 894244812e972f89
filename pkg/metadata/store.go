// Package metadata persists per-host environment records as JSON files with
// a summary index, so runs can discover what was provisioned previously.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AFDudley/briefcase-test-sub000/pkg/types"
)

// Version is written into every record so later readers can detect format
// changes.
const Version = "1.0"

const indexFile = "index.json"

// Record is one persisted environment description.
type Record struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	TargetHost  string                 `json:"target_host"`
	CreatedAt   time.Time              `json:"created_at"`
	LastUpdated time.Time              `json:"last_updated"`
	Version     string                 `json:"metadata_version"`
	Attrs       map[string]interface{} `json:"attrs,omitempty"`
}

// IndexEntry is the summary kept in the index for each record.
type IndexEntry struct {
	ID          string    `json:"id"`
	TargetHost  string    `json:"target_host"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

type index struct {
	Records map[string]IndexEntry `json:"records"`
}

// Store reads and writes records under a single directory.
type Store struct {
	dir   string
	clock types.Clock
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithClock(dir, types.NewRealClock())
}

// NewStoreWithClock creates a store with the specified clock
func NewStoreWithClock(dir string, clock types.Clock) (*Store, error) {
	if clock == nil {
		clock = types.NewRealClock()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}
	return &Store{dir: dir, clock: clock}, nil
}

func recordPath(dir, name, host string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, host))
}

// Save writes a record for (name, host), preserving the id and creation time
// of an existing record, and updates the index.
func (s *Store) Save(name, host string, attrs map[string]interface{}) (*Record, error) {
	now := s.clock.Now()
	rec := &Record{
		ID:          uuid.NewString(),
		Name:        name,
		TargetHost:  host,
		CreatedAt:   now,
		LastUpdated: now,
		Version:     Version,
		Attrs:       attrs,
	}

	if prev, err := s.Load(name, host); err == nil {
		rec.ID = prev.ID
		rec.CreatedAt = prev.CreatedAt
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if err := os.WriteFile(recordPath(s.dir, name, host), data, 0o644); err != nil {
		return nil, fmt.Errorf("write record: %w", err)
	}

	if err := s.updateIndex(func(idx *index) {
		idx.Records[indexKey(name, host)] = IndexEntry{
			ID:          rec.ID,
			TargetHost:  host,
			CreatedAt:   rec.CreatedAt,
			LastUpdated: rec.LastUpdated,
		}
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load reads the record for (name, host).
func (s *Store) Load(name, host string) (*Record, error) {
	data, err := os.ReadFile(recordPath(s.dir, name, host))
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

// Delete removes the record for (name, host) and its index entry. Deleting
// an absent record is a no-op.
func (s *Store) Delete(name, host string) error {
	if err := os.Remove(recordPath(s.dir, name, host)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove record: %w", err)
	}
	return s.updateIndex(func(idx *index) {
		delete(idx.Records, indexKey(name, host))
	})
}

// List returns the index keys in sorted order.
func (s *Store) List() ([]string, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(idx.Records))
	for k := range idx.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Index returns the summary entries keyed by "name@host".
func (s *Store) Index() (map[string]IndexEntry, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	return idx.Records, nil
}

func indexKey(name, host string) string {
	return name + "@" + host
}

func (s *Store) loadIndex() (*index, error) {
	idx := &index{Records: map[string]IndexEntry{}}
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if idx.Records == nil {
		idx.Records = map[string]IndexEntry{}
	}
	return idx, nil
}

func (s *Store) updateIndex(mutate func(*index)) error {
	idx, err := s.loadIndex()
	if err != nil {
		return err
	}
	mutate(idx)
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
