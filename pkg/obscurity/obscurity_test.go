package obscurity

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
)

const epsilon = 1e-9

func newCorpus(t *testing.T, weights map[string]float64) *corpus.Corpus {
	t.Helper()

	total := 0.0
	for _, w := range weights {
		total += w
	}
	c, err := corpus.New(weights, total)
	if err != nil {
		t.Fatalf("corpus.New() failed: %v", err)
	}
	return c
}

func TestScore(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 1000, "rare": 1})

	tests := []struct {
		word string
		want float64
	}{
		{"the", math.Log2((1.0 / 3) / (1000.0 / 1001))},
		{"rare", math.Log2((1.0 / 3) / (1.0 / 1001))},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok, err := Score(tt.word, c, 3)
			if err != nil || !ok {
				t.Fatalf("Score(%q) = %v, %v, %v", tt.word, got, ok, err)
			}
			if math.Abs(got.Value-tt.want) > epsilon {
				t.Errorf("Score(%q) = %v, want %v", tt.word, got.Value, tt.want)
			}
		})
	}
}

func TestScore_AbsentWord(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 1000})
	got, ok, err := Score("zyzzyva", c, 5)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if ok {
		t.Errorf("Score() reported absent word as present: %+v", got)
	}
}

func TestScore_ZeroWeight(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 1000, "ghost": 0})
	_, ok, err := Score("ghost", c, 5)
	if ok {
		t.Error("Score() reported zero-weight word as present")
	}
	if !errors.Is(err, ErrCorpusData) {
		t.Errorf("Score() error = %v, want ErrCorpusData", err)
	}
}

func TestScore_EmptyDocument(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 1})
	if _, _, err := Score("the", c, 0); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Score() error = %v, want ErrEmptyDocument", err)
	}
}

func TestScore_DecreasingInWeight(t *testing.T) {
	weights := map[string]float64{}
	for i := 1; i <= 50; i++ {
		weights[fmt.Sprintf("w%02d", i)] = float64(i * i)
	}
	c := newCorpus(t, weights)

	prev := math.Inf(1)
	for i := 1; i <= 50; i++ {
		wo, ok, err := Score(fmt.Sprintf("w%02d", i), c, 120)
		if err != nil || !ok {
			t.Fatalf("Score() = %v, %v, %v", wo, ok, err)
		}
		if !(wo.Value < prev) {
			t.Fatalf("obscurity not decreasing at weight %d: %v >= %v", i*i, wo.Value, prev)
		}
		prev = wo.Value
	}
}

func TestTrim(t *testing.T) {
	mk := func(n int) []WordObscurity {
		out := make([]WordObscurity, n)
		for i := range out {
			// descending values so sorting has work to do
			out[i] = WordObscurity{Word: fmt.Sprintf("w%02d", i), Value: float64(n - i)}
		}
		return out
	}

	for _, k := range []int{0, 1, 5, 10} {
		t.Run(fmt.Sprintf("k=%d trims to empty", k), func(t *testing.T) {
			got := Trim(mk(k), DefaultDropCount)
			if got == nil || len(got) != 0 {
				t.Errorf("Trim(%d entries) = %v, want empty non-nil", k, got)
			}
		})
	}

	for _, k := range []int{11, 12, 25} {
		t.Run(fmt.Sprintf("k=%d keeps k-10", k), func(t *testing.T) {
			in := mk(k)
			got := Trim(in, DefaultDropCount)
			if len(got) != k-DefaultDropCount {
				t.Fatalf("len(Trim) = %d, want %d", len(got), k-DefaultDropCount)
			}
			kept := make(map[string]bool, len(got))
			minKept := math.Inf(1)
			for _, w := range got {
				kept[w.Word] = true
				minKept = math.Min(minKept, w.Value)
			}
			for _, w := range in {
				if !kept[w.Word] && w.Value > minKept {
					t.Errorf("dropped %v is greater than kept minimum %v", w, minKept)
				}
			}
			for i := 1; i < len(got); i++ {
				if got[i].Value < got[i-1].Value {
					t.Errorf("result not ascending at %d", i)
				}
			}
		})
	}

	t.Run("does not modify input", func(t *testing.T) {
		in := mk(12)
		first := in[0]
		Trim(in, DefaultDropCount)
		if in[0] != first {
			t.Error("Trim modified its input")
		}
	})

	t.Run("ties broken by word", func(t *testing.T) {
		in := []WordObscurity{{"b", 1}, {"a", 1}, {"c", 0}}
		got := Trim(in, 2)
		if len(got) != 1 || got[0].Word != "b" {
			t.Errorf("Trim() = %v, want [b]", got)
		}
	})
}

func TestBuild_ShortDocumentTrimsToZero(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 1000, "rare": 1})
	tokens := []string{"the", "rare", "the"}

	p, err := Build(tokens, c, len(tokens), DefaultDropCount)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(p.Words) != 3 {
		t.Errorf("len(Words) = %d, want 3", len(p.Words))
	}
	if len(p.Trimmed) != 0 {
		t.Errorf("len(Trimmed) = %d, want 0", len(p.Trimmed))
	}
	if p.Mean != 0 {
		t.Errorf("Mean = %v, want 0", p.Mean)
	}
	wantThe := math.Log2((1.0 / 3) / (1000.0 / 1001))
	if math.Abs(p.Words[0].Value-wantThe) > epsilon || p.Words[0].Word != "the" {
		t.Errorf("Words[0] = %+v, want the=%v", p.Words[0], wantThe)
	}
}

func TestBuild_AbsentWordsNotCounted(t *testing.T) {
	weights := map[string]float64{}
	tokens := make([]string, 0, 30)
	for i := 0; i < 12; i++ {
		w := fmt.Sprintf("known%02d", i)
		weights[w] = float64(i + 1)
		tokens = append(tokens, w)
	}
	for i := 0; i < 18; i++ {
		tokens = append(tokens, fmt.Sprintf("unknown%02d", i))
	}
	c := newCorpus(t, weights)

	p, err := Build(tokens, c, len(tokens), DefaultDropCount)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(p.Words) != 12 {
		t.Fatalf("len(Words) = %d, want 12", len(p.Words))
	}
	if len(p.Trimmed) != 2 {
		t.Fatalf("len(Trimmed) = %d, want 2", len(p.Trimmed))
	}
	for _, w := range p.Trimmed {
		if _, ok := weights[w.Word]; !ok {
			t.Errorf("trimmed list contains out-of-corpus word %q", w.Word)
		}
	}
	// the two rarest words survive; local usage uses all 30 tokens
	total := 78.0
	want := (math.Log2((1.0/30)/(1/total)) + math.Log2((1.0/30)/(2/total))) / 2
	if math.Abs(p.Mean-want) > epsilon {
		t.Errorf("Mean = %v, want %v", p.Mean, want)
	}
}

func TestBuild_ZeroWeightCounted(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 10, "ghost": 0})
	p, err := Build([]string{"the", "ghost", "ghost"}, c, 3, 0)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if p.ZeroWeight != 2 {
		t.Errorf("ZeroWeight = %d, want 2", p.ZeroWeight)
	}
	if len(p.Words) != 1 {
		t.Errorf("len(Words) = %d, want 1", len(p.Words))
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 10})
	if _, err := Build(nil, c, 0, DefaultDropCount); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Build() error = %v, want ErrEmptyDocument", err)
	}
}

func TestTopObscure(t *testing.T) {
	p := Profile{Words: []WordObscurity{{"a", 1}, {"b", 3}, {"a", 1}, {"c", 2}}}
	got := p.TopObscure(2)
	if len(got) != 2 || got[0].Word != "b" || got[1].Word != "c" {
		t.Errorf("TopObscure(2) = %v, want [b c]", got)
	}
}

func TestScorer(t *testing.T) {
	c := newCorpus(t, map[string]float64{"the": 10})
	if s := NewScorer(c, -1); s.DropCount() != DefaultDropCount {
		t.Errorf("DropCount() = %d, want %d", s.DropCount(), DefaultDropCount)
	}
	s := NewScorer(c, 0)
	if s.Corpus() != c {
		t.Error("Corpus() does not return the scorer's corpus")
	}
	p, err := s.Profile([]string{"the", "the"})
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if p.TokenCount != 2 || len(p.Trimmed) != 2 {
		t.Errorf("Profile() = %+v", p)
	}
}
