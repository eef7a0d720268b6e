// Package catalog loads and indexes the question bank.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var questionSchema string

// ErrUnknownQuestion is returned by Get for an ID not present in the bank.
var ErrUnknownQuestion = errors.New("unknown question")

// Store holds the full question bank, indexed by ID.
// Read-only after Load; safe for concurrent readers.
type Store struct {
	questions []Question
	byID      map[string]Question
	ids       []string
}

// Load reads and validates the question bank from a JSON file.
// The game cannot run without its question bank: any missing, malformed
// or schema-invalid source is an error for the caller to treat as fatal.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question catalog: %w", err)
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("question catalog %s: %w", path, err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decoding question catalog %s: %w", path, err)
	}

	s := &Store{
		questions: questions,
		byID:      make(map[string]Question, len(questions)),
		ids:       make([]string, 0, len(questions)),
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question catalog %s: %w", path, err)
		}
		if _, dup := s.byID[q.ID]; dup {
			return nil, fmt.Errorf("question catalog %s: duplicate id %q", path, q.ID)
		}
		s.byID[q.ID] = q
		s.ids = append(s.ids, q.ID)
	}

	slog.Info("question catalog loaded", "path", path, "questions", len(s.ids))
	return s, nil
}

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(questionSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		return fmt.Errorf("schema violation: %s (and %d more)", errs[0], len(errs)-1)
	}
	return nil
}

// Get returns the question for the given ID.
func (s *Store) Get(id string) (Question, error) {
	q, ok := s.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	return q, nil
}

// MustGet returns the question for the given ID and panics if it does
// not exist. Used where an unknown ID means broken content, not a
// runtime condition.
func (s *Store) MustGet(id string) Question {
	q, err := s.Get(id)
	if err != nil {
		panic(err)
	}
	return q
}

// AllIDs returns every question ID in catalog order.
func (s *Store) AllIDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of questions in the bank.
func (s *Store) Len() int {
	return len(s.ids)
}
