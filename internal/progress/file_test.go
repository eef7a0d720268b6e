package progress_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/legends-trivia/trivia/internal/progress"
)

func progressPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "progress.json")
}

func TestOpen_MissingFile(t *testing.T) {
	s := progress.Open(progressPath(t))

	if s.Unlocked() != 1 {
		t.Errorf("Unlocked() = %d, want 1", s.Unlocked())
	}
	if s.StarsFor(1) != 0 {
		t.Errorf("StarsFor(1) = %d, want 0", s.StarsFor(1))
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := progressPath(t)
	if err := os.WriteFile(path, []byte(`{"unlocked": `), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s := progress.Open(path)
	if s.Unlocked() != 1 {
		t.Errorf("Unlocked() = %d, want 1 after corrupt file", s.Unlocked())
	}
}

func TestOpen_ExistingFile(t *testing.T) {
	path := progressPath(t)
	if err := os.WriteFile(path, []byte(`{"unlocked": 4, "stars": {"1": 3, "2": 1}}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s := progress.Open(path)
	if s.Unlocked() != 4 {
		t.Errorf("Unlocked() = %d, want 4", s.Unlocked())
	}
	if s.StarsFor(1) != 3 {
		t.Errorf("StarsFor(1) = %d, want 3", s.StarsFor(1))
	}
	if s.StarsFor(2) != 1 {
		t.Errorf("StarsFor(2) = %d, want 1", s.StarsFor(2))
	}
	if s.StarsFor(3) != 0 {
		t.Errorf("StarsFor(3) = %d, want 0", s.StarsFor(3))
	}
}

func TestUnlockNext_Monotonic(t *testing.T) {
	s := progress.Open(progressPath(t))

	if err := s.UnlockNext(1); err != nil {
		t.Fatalf("UnlockNext(1) error = %v", err)
	}
	if s.Unlocked() != 2 {
		t.Fatalf("Unlocked() = %d, want 2", s.Unlocked())
	}

	// Stale or repeated calls never lower the counter.
	if err := s.UnlockNext(1); err != nil {
		t.Fatalf("UnlockNext(1) again error = %v", err)
	}
	if err := s.UnlockNext(0); err != nil {
		t.Fatalf("UnlockNext(0) error = %v", err)
	}
	if s.Unlocked() != 2 {
		t.Errorf("Unlocked() = %d, want 2 after stale unlocks", s.Unlocked())
	}

	if err := s.UnlockNext(5); err != nil {
		t.Fatalf("UnlockNext(5) error = %v", err)
	}
	if s.Unlocked() != 6 {
		t.Errorf("Unlocked() = %d, want 6", s.Unlocked())
	}
}

func TestSetStars_Clamped(t *testing.T) {
	tests := []struct {
		name  string
		stars int
		want  int
	}{
		{"negative", -2, 0},
		{"zero", 0, 0},
		{"in range", 2, 2},
		{"max", 3, 3},
		{"above max", 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := progress.Open(progressPath(t))
			if err := s.SetStars(1, tt.stars); err != nil {
				t.Fatalf("SetStars() error = %v", err)
			}
			if got := s.StarsFor(1); got != tt.want {
				t.Errorf("StarsFor(1) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFileStore_PersistsAcrossOpens(t *testing.T) {
	path := progressPath(t)

	s := progress.Open(path)
	if err := s.SetStars(1, 3); err != nil {
		t.Fatalf("SetStars() error = %v", err)
	}
	if err := s.UnlockNext(1); err != nil {
		t.Fatalf("UnlockNext() error = %v", err)
	}

	reopened := progress.Open(path)
	if reopened.Unlocked() != 2 {
		t.Errorf("Unlocked() = %d, want 2 after reopen", reopened.Unlocked())
	}
	if reopened.StarsFor(1) != 3 {
		t.Errorf("StarsFor(1) = %d, want 3 after reopen", reopened.StarsFor(1))
	}
}

func TestFileStore_FileFormat(t *testing.T) {
	path := progressPath(t)

	s := progress.Open(path)
	if err := s.SetStars(2, 1); err != nil {
		t.Fatalf("SetStars() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading progress file: %v", err)
	}

	var doc struct {
		Unlocked int            `json:"unlocked"`
		Stars    map[string]int `json:"stars"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("progress file is not valid JSON: %v", err)
	}
	if doc.Unlocked != 1 {
		t.Errorf("unlocked = %d, want 1", doc.Unlocked)
	}
	if doc.Stars["2"] != 1 {
		t.Errorf(`stars["2"] = %d, want 1`, doc.Stars["2"])
	}
}

func TestFileStore_NoWriteWithoutChange(t *testing.T) {
	path := progressPath(t)

	s := progress.Open(path)
	// No unlock has happened: nothing should be written yet, and a
	// stale UnlockNext must not create the file either.
	if err := s.UnlockNext(0); err != nil {
		t.Fatalf("UnlockNext(0) error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("progress file should not exist after a no-op unlock")
	}
}
