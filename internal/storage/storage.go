package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/model"
)

// ErrNotFound is returned when a subject has no stored document.
var ErrNotFound = errors.New("no stored timesheet")

// Store keeps one timesheet document per subject as a JSON file in a
// directory. Writes are atomic; a corrupt file is moved aside on read.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Record is the on-disk form of a stored document.
type Record struct {
	Subject  string         `json:"subject"`
	SavedAt  time.Time      `json:"saved_at"`
	Document model.Document `json:"document"`
}

// NewStore returns a Store rooted at dir. The directory is created on first
// write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// filePath returns the path for subjectID's file. Subject ids are escaped so
// any id maps to a single file name inside dir.
func (s *Store) filePath(subjectID string) string {
	return filepath.Join(s.dir, url.PathEscape(subjectID)+".json")
}

// Load returns subjectID's stored record, or ErrNotFound.
func (s *Store) Load(subjectID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(subjectID)
}

func (s *Store) load(subjectID string) (Record, error) {
	path := s.filePath(subjectID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return Record{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return rec, nil
}

// Save atomically writes doc as subjectID's record.
func (s *Store) Save(subjectID string, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	rec := Record{Subject: subjectID, SavedAt: time.Now().UTC(), Document: doc}
	if rec.Document.Time == nil {
		rec.Document.Time = []model.TimeEntry{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	path := s.filePath(subjectID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Delete removes subjectID's record. Deleting a missing record is not an error.
func (s *Store) Delete(subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.filePath(subjectID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage error deleting record: %w", err)
	}
	return nil
}

// List returns every stored record ordered by subject.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", s.dir, err)
	}
	var records []Record
	for _, de := range names {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		subject, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		rec, err := s.load(subject)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Subject < records[j].Subject })
	return records, nil
}
