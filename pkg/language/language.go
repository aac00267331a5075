// Package language checks that an essay is English before it is scored
// against an English frequency corpus.
package language

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dtnitsch/essay-obscurity/models"
	"github.com/pemistahl/lingua-go"
)

// MinTokens is the shortest input the guard will judge. Detection on fewer
// words is unreliable.
const MinTokens = 20

// ErrNotEnglish is returned when the input is confidently another language.
var ErrNotEnglish = errors.New("essay is not in English")

var candidates = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// Guard detects the language of an essay. The detector is built on first use.
type Guard struct {
	minConfidence float64

	once     sync.Once
	detector lingua.LanguageDetector
}

// NewGuard returns a Guard that rejects text detected as a non-English
// language with at least minConfidence.
func NewGuard(minConfidence float64) *Guard {
	return &Guard{minConfidence: minConfidence}
}

func (g *Guard) build() lingua.LanguageDetector {
	g.once.Do(func() {
		g.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	return g.detector
}

// Check reports the detected language of text. Inputs under MinTokens tokens
// are skipped. The error wraps ErrNotEnglish when another language wins with
// enough confidence.
func (g *Guard) Check(text string, tokenCount int) (models.LanguageInfo, error) {
	if tokenCount < MinTokens {
		return models.LanguageInfo{English: true, Skipped: true}, nil
	}

	detector := g.build()
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return models.LanguageInfo{English: true, Skipped: true}, nil
	}

	info := models.LanguageInfo{
		Detected:   strings.ToLower(lang.IsoCode639_1().String()),
		Confidence: detector.ComputeLanguageConfidence(text, lang),
		English:    lang == lingua.English,
	}
	if !info.English && info.Confidence >= g.minConfidence {
		return info, fmt.Errorf("detected %s with confidence %.2f: %w", lang, info.Confidence, ErrNotEnglish)
	}
	return info, nil
}
