// Package obscurity measures how unusual an essay's vocabulary is relative to a
// reference corpus.
//
// A word's obscurity is log2(local/global), where local is the uniform per-token
// probability 1/N of an N-token essay and global is the word's share of the corpus
// weight. Local usage deliberately ignores how often the word repeats in the essay.
// An essay's profile is the mean obscurity after discarding the lowest values.
package obscurity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
)

// DefaultDropCount is how many of the lowest obscurity values are discarded
// before averaging.
const DefaultDropCount = 10

var (
	// ErrCorpusData reports a corpus entry that cannot be scored (zero weight).
	ErrCorpusData = errors.New("corpus data error")
	// ErrEmptyDocument reports a non-positive essay word count.
	ErrEmptyDocument = errors.New("essay word count must be positive")
)

// WordObscurity is one scored token.
type WordObscurity struct {
	Word  string  `json:"word" yaml:"word"`
	Value float64 `json:"value" yaml:"value"`
}

// Score returns the obscurity of word in an essay of essayWordCount tokens.
// The boolean is false when the word is not scored: it is absent from the corpus,
// or its weight is zero, in which case the error wraps ErrCorpusData.
func Score(word string, c *corpus.Corpus, essayWordCount int) (WordObscurity, bool, error) {
	if essayWordCount <= 0 {
		return WordObscurity{}, false, ErrEmptyDocument
	}
	weight, ok := c.Weight(word)
	if !ok {
		return WordObscurity{}, false, nil
	}
	if weight == 0 {
		return WordObscurity{}, false, fmt.Errorf("word %q has zero weight: %w", word, ErrCorpusData)
	}

	localUsage := 1 / float64(essayWordCount)
	globalUsage := weight / c.Total()
	return WordObscurity{Word: word, Value: math.Log2(localUsage / globalUsage)}, true, nil
}

// Trim sorts words ascending by value (word breaks ties) and discards the first
// dropCount entries. A list with dropCount or fewer entries trims to empty.
// The input slice is not modified.
func Trim(words []WordObscurity, dropCount int) []WordObscurity {
	if dropCount < 0 {
		dropCount = 0
	}
	if len(words) <= dropCount {
		return []WordObscurity{}
	}

	sorted := make([]WordObscurity, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].Word < sorted[j].Word
	})
	return sorted[dropCount:]
}

// Mean returns the arithmetic mean of the values, or 0 for an empty list.
func Mean(words []WordObscurity) float64 {
	if len(words) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range words {
		sum += w.Value
	}
	return sum / float64(len(words))
}
