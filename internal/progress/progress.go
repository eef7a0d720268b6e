// Package progress tracks which levels are unlocked and the stars
// earned per level, durably and monotonically.
package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// MaxStars is the rating ceiling for a level.
const MaxStars = 3

// Store is the player-progress contract. Unlock state only ever grows;
// star monotonicity across replays is the caller's responsibility
// (sessions write max(new, previous)).
type Store interface {
	// Unlocked returns the highest level the player may enter.
	Unlocked() int
	// UnlockNext raises the unlock level to level+1 if that is an
	// increase. Idempotent under repeated or stale calls.
	UnlockNext(level int) error
	// SetStars records a star rating for a level, clamped to [0,3].
	SetStars(level, stars int) error
	// StarsFor returns the recorded stars for a level, 0 if none.
	StarsFor(level int) int
}

// fileRecord is the on-disk shape. Level keys are strings so the file
// stays a plain JSON object.
type fileRecord struct {
	Unlocked int            `json:"unlocked"`
	Stars    map[string]int `json:"stars"`
}

// FileStore is the reference Store implementation: a small JSON file,
// rewritten wholesale on every mutation.
type FileStore struct {
	path string

	mu   sync.Mutex
	data fileRecord
}

// Open loads progress from path. A missing or corrupt file silently
// initializes default progress; broken progress must never stop the
// game from starting.
func Open(path string) *FileStore {
	s := &FileStore{
		path: path,
		data: fileRecord{Unlocked: 1, Stars: map[string]int{}},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("progress file unreadable, starting fresh", "path", path, "error", err)
		}
		return s
	}

	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		slog.Warn("progress file corrupt, starting fresh", "path", path, "error", err)
		return s
	}
	if rec.Unlocked < 1 {
		rec.Unlocked = 1
	}
	if rec.Stars == nil {
		rec.Stars = map[string]int{}
	}
	s.data = rec
	return s
}

// save writes the full record atomically. Caller holds s.mu.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".progress-*")
	if err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}

func (s *FileStore) Unlocked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Unlocked
}

func (s *FileStore) UnlockNext(level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Unlocked >= level+1 {
		return nil
	}
	s.data.Unlocked = level + 1
	return s.save()
}

func (s *FileStore) SetStars(level, stars int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Stars[strconv.Itoa(level)] = clampStars(stars)
	return s.save()
}

func (s *FileStore) StarsFor(level int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Stars[strconv.Itoa(level)]
}

func clampStars(stars int) int {
	if stars < 0 {
		return 0
	}
	if stars > MaxStars {
		return MaxStars
	}
	return stars
}
