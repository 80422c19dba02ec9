// Package leaderboard persists the ranked name/score list as a JSON file.
package leaderboard

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio/maybe"
)

const (
	// MaxStored is how many entries survive a save.
	MaxStored = 50
	// DisplayCount is how many entries the table shows.
	DisplayCount = 10
)

// Entry is one saved result.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store reads and writes the leaderboard file at a fixed path.
type Store struct {
	path string
}

// New returns a store for path. Nothing is touched on disk.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// EnsureExists creates the file holding an empty list if it is missing.
func (s *Store) EnsureExists() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return &ReadError{Path: s.path, Err: err}
	}
	return s.Save([]Entry{})
}

// Load returns the stored entries in file order. A missing or corrupt file
// reads as an empty board; individual malformed entries are dropped.
func (s *Store) Load() []Entry {
	entries, err := s.load()
	if err != nil {
		log.Printf("leaderboard: treating board as empty: %v", err)
		return []Entry{}
	}
	return entries
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}

	// Entries are decoded one by one so a single bad row does not cost the
	// rest of the board.
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			log.Printf("leaderboard: skipping entry %d in %s: null", i, s.path)
			continue
		}
		var e Entry
		if err := json.Unmarshal(r, &e); err != nil {
			log.Printf("leaderboard: skipping entry %d in %s: %v", i, s.path, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Save overwrites the file with entries exactly as given.
func (s *Store) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return &WriteError{Path: s.path, Err: fmt.Errorf("encode: %w", err)}
	}
	// Same layout the board has always had on disk: 2-space indent, no trailing newline.
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: s.path, Err: err}
		}
	}
	if err := maybe.WriteFile(s.path, data, 0o644); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

// Record adds name/score, keeps the best MaxStored entries and saves them.
// The returned slice is the ranked board as written.
func (s *Store) Record(name string, score int) ([]Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if score < 0 {
		return nil, ErrNegativeScore
	}

	board := append(s.Load(), Entry{Name: name, Score: score})
	board = Rank(board)
	if len(board) > MaxStored {
		board = board[:MaxStored]
	}
	if err := s.Save(board); err != nil {
		return nil, err
	}
	return board, nil
}

// Top returns the n best entries.
func (s *Store) Top(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	board := Rank(s.Load())
	if len(board) > n {
		board = board[:n]
	}
	return board
}

// Rank sorts by score, highest first. Equal scores keep their order.
func Rank(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
