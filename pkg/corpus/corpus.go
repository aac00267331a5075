// Package corpus holds the reference word-frequency table obscurity is measured against.
//
// A Corpus is built once at startup and is read-only afterwards, so a single
// instance can be shared by any number of goroutines.
package corpus

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrCorpusLoad is matched by every error that prevents a corpus from loading.
var ErrCorpusLoad = errors.New("corpus load failed")

// LoadError describes why a corpus source could not be loaded.
// Line is the 1-based row number for malformed rows and 0 otherwise.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to load corpus %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to load corpus %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrCorpusLoad, e.Err}
}

// Entry is a single word and its weight.
type Entry struct {
	Word   string  `json:"word" yaml:"word"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Corpus maps lowercase words to non-negative weights.
type Corpus struct {
	weights map[string]float64
	total   float64
}

// New builds a corpus from pre-aggregated weights and their total.
// Keys are lowercased; when two keys collapse to the same word the last one wins.
func New(weights map[string]float64, total float64) (*Corpus, error) {
	if len(weights) == 0 {
		return nil, errors.New("corpus has no words")
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("corpus total weight must be positive, got %v", total)
	}
	c := &Corpus{weights: make(map[string]float64, len(weights)), total: total}
	for word, weight := range weights {
		if err := checkWeight(weight); err != nil {
			return nil, fmt.Errorf("word %q: %w", word, err)
		}
		c.weights[strings.ToLower(word)] = weight
	}
	return c, nil
}

// Weight returns the weight of word and whether the corpus contains it.
func (c *Corpus) Weight(word string) (float64, bool) {
	w, ok := c.weights[strings.ToLower(word)]
	return w, ok
}

// Total returns the sum of all weights that were added while building the corpus.
func (c *Corpus) Total() float64 { return c.total }

// Len returns the number of distinct words.
func (c *Corpus) Len() int { return len(c.weights) }

// Entries returns every word sorted alphabetically.
func (c *Corpus) Entries() []Entry {
	out := make([]Entry, 0, len(c.weights))
	for w, v := range c.weights {
		out = append(out, Entry{Word: w, Weight: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// Top returns the n heaviest words, ties broken alphabetically.
func (c *Corpus) Top(n int) []Entry {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Builder accumulates rows into a Corpus the way the CSV source is read:
// words are lowercased, a repeated word keeps its last weight, and every row
// counts toward the total.
type Builder struct {
	weights map[string]float64
	total   float64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{weights: make(map[string]float64)}
}

// Add records one row.
func (b *Builder) Add(word string, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	b.weights[strings.ToLower(word)] = weight
	b.total += weight
	return nil
}

// Build validates the accumulated rows and returns the corpus.
func (b *Builder) Build() (*Corpus, error) {
	return New(b.weights, b.total)
}

func checkWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("weight %v is not finite", weight)
	}
	if weight < 0 {
		return fmt.Errorf("weight %v is negative", weight)
	}
	return nil
}

// FromCounts builds a corpus from raw word counts. The total is the sum of
// all counts.
func FromCounts(counts map[string]int) (*Corpus, error) {
	b := NewBuilder()
	for word, n := range counts {
		if err := b.Add(word, float64(n)); err != nil {
			return nil, fmt.Errorf("word %q: %w", word, err)
		}
	}
	return b.Build()
}
