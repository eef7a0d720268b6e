// Package levels maps level numbers to ordered question-ID lists.
package levels

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/legends-trivia/trivia/internal/catalog"
)

// DefaultChunkSize is the questions-per-level block size used when
// levels are generated from the question bank.
const DefaultChunkSize = 5

// Catalog resolves level numbers to their question-ID lists.
// Immutable after Load.
type Catalog struct {
	numbered map[int][]string
	named    map[string][]string
	numbers  []int
}

// Load builds the level catalog from a definition file, falling back to
// generated levels when the file is absent, unreadable or empty.
//
// Two source forms are accepted, in JSON or YAML:
//
//	{"1": ["q1","q2"], "2": ["q3"]}     mapping, keys are level numbers
//	[["q1","q2"], ["q3"]]               positional, index+1 is the level
//
// A malformed source never fails the load; it degrades to chunking the
// question bank into blocks of chunkSize, levels numbered from 1.
func Load(path string, store *catalog.Store, chunkSize int) *Catalog {
	if chunkSize < 1 {
		chunkSize = 1
	}

	raw, err := readSource(path)
	if err != nil {
		slog.Warn("level definitions unavailable, generating levels", "path", path, "error", err)
		return generate(store, chunkSize)
	}

	c := normalize(raw)
	if len(c.numbered) == 0 && len(c.named) == 0 {
		slog.Warn("level definitions empty, generating levels", "path", path)
		return generate(store, chunkSize)
	}

	slog.Info("level definitions loaded", "path", path, "levels", len(c.numbered), "named", len(c.named))
	return c
}

// source is the union of the two accepted file forms.
type source struct {
	byKey      map[string][]string
	positional [][]string
}

func readSource(path string) (source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, err
	}

	unmarshal := json.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}

	var byKey map[string][]string
	if err := unmarshal(data, &byKey); err == nil {
		return source{byKey: byKey}, nil
	}

	var positional [][]string
	if err := unmarshal(data, &positional); err == nil {
		return source{positional: positional}, nil
	}

	return source{}, fmt.Errorf("level definitions %s: neither a level map nor a list of levels", path)
}

func normalize(raw source) *Catalog {
	c := &Catalog{
		numbered: make(map[int][]string),
		named:    make(map[string][]string),
	}

	for i, ids := range raw.positional {
		c.numbered[i+1] = append([]string(nil), ids...)
	}
	for key, ids := range raw.byKey {
		if n, err := strconv.Atoi(key); err == nil {
			c.numbered[n] = append([]string(nil), ids...)
		} else {
			c.named[key] = append([]string(nil), ids...)
		}
	}

	for n := range c.numbered {
		c.numbers = append(c.numbers, n)
	}
	sort.Ints(c.numbers)
	return c
}

func generate(store *catalog.Store, chunkSize int) *Catalog {
	c := &Catalog{
		numbered: make(map[int][]string),
		named:    make(map[string][]string),
	}

	ids := store.AllIDs()
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		n := start/chunkSize + 1
		c.numbered[n] = ids[start:end]
		c.numbers = append(c.numbers, n)
	}
	return c
}

// TotalLevels returns the count of distinct levels.
func (c *Catalog) TotalLevels() int {
	return len(c.numbered) + len(c.named)
}

// QuestionsForLevel returns the question IDs for level n, or an empty
// slice when n has no entry.
func (c *Catalog) QuestionsForLevel(n int) []string {
	return append([]string(nil), c.numbered[n]...)
}

// QuestionsForName returns the question IDs for a non-numeric level key.
func (c *Catalog) QuestionsForName(key string) []string {
	return append([]string(nil), c.named[key]...)
}

// LevelNumbers returns all numeric level numbers in ascending order.
func (c *Catalog) LevelNumbers() []int {
	return append([]int(nil), c.numbers...)
}

// LevelNames returns the non-numeric level keys in lexicographic order.
// Named levels come after the numbered progression in any listing.
func (c *Catalog) LevelNames() []string {
	names := make([]string, 0, len(c.named))
	for key := range c.named {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}
