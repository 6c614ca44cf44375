// Package state keeps a small on-disk history of exports.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	stateFileName = "exports.json"
	hashBytes     = 8192 // First 8KB for content hash
	maxEntries    = 100
)

// Entry records one written export.
type Entry struct {
	Key         string    `json:"key"`
	Source      string    `json:"source"`
	Granularity string    `json:"granularity"`
	Format      string    `json:"format"`
	Path        string    `json:"path"`
	Rows        int       `json:"rows"`
	At          time.Time `json:"at"`
}

// Store manages the persistent export history.
type Store struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewStore creates or loads the history kept in dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty history
		store.entries = nil
	}
	return store, nil
}

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// Record appends an entry and saves, dropping the oldest beyond maxEntries.
func (s *Store) Record(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[len(s.entries)-maxEntries:]
	}
	return s.save()
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (s *Store) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// ForKey returns every entry recorded for key, newest first.
func (s *Store) ForKey(key string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Key == key {
			out = append(out, s.entries[i])
		}
	}
	return out
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.entries)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
