package obscurity

import (
	"sort"

	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
)

// Profile is the obscurity summary of one document.
type Profile struct {
	// TokenCount is the essay word count used for local usage, out-of-corpus tokens included.
	TokenCount int
	// Words holds one entry per scored token, in input order.
	Words []WordObscurity
	// Trimmed is Words sorted ascending with the lowest values removed.
	Trimmed []WordObscurity
	// Mean is the trimmed mean, 0 when Trimmed is empty.
	Mean float64
	// ZeroWeight counts tokens skipped because their corpus weight is zero.
	ZeroWeight int
}

// Build scores every token (repeats included) against c, trims the dropCount
// lowest values and averages the rest. Tokens missing from the corpus are dropped
// without error; they still count toward essayWordCount.
func Build(tokens []string, c *corpus.Corpus, essayWordCount, dropCount int) (Profile, error) {
	if essayWordCount <= 0 {
		return Profile{}, ErrEmptyDocument
	}

	p := Profile{TokenCount: essayWordCount, Words: make([]WordObscurity, 0, len(tokens))}
	for _, tok := range tokens {
		wo, ok, err := Score(tok, c, essayWordCount)
		if err != nil {
			p.ZeroWeight++
			continue
		}
		if ok {
			p.Words = append(p.Words, wo)
		}
	}

	p.Trimmed = Trim(p.Words, dropCount)
	p.Mean = Mean(p.Trimmed)
	return p, nil
}

// TopObscure returns up to n distinct scored words with the highest obscurity.
func (p Profile) TopObscure(n int) []WordObscurity {
	seen := make(map[string]bool, len(p.Words))
	distinct := make([]WordObscurity, 0, len(p.Words))
	for _, w := range p.Words {
		if seen[w.Word] {
			continue
		}
		seen[w.Word] = true
		distinct = append(distinct, w)
	}
	sort.SliceStable(distinct, func(i, j int) bool {
		if distinct[i].Value != distinct[j].Value {
			return distinct[i].Value > distinct[j].Value
		}
		return distinct[i].Word < distinct[j].Word
	})
	if n >= 0 && n < len(distinct) {
		distinct = distinct[:n]
	}
	return distinct
}

// Scorer builds profiles against a fixed corpus and drop count.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	corpus    *corpus.Corpus
	dropCount int
}

// NewScorer returns a Scorer. A negative dropCount selects DefaultDropCount.
func NewScorer(c *corpus.Corpus, dropCount int) *Scorer {
	if dropCount < 0 {
		dropCount = DefaultDropCount
	}
	return &Scorer{corpus: c, dropCount: dropCount}
}

// Profile scores a token stream, using its length as the essay word count.
func (s *Scorer) Profile(tokens []string) (Profile, error) {
	return Build(tokens, s.corpus, len(tokens), s.dropCount)
}

// DropCount returns the number of lowest values the scorer discards.
func (s *Scorer) DropCount() int { return s.dropCount }

// Corpus returns the reference corpus.
func (s *Scorer) Corpus() *corpus.Corpus { return s.corpus }
