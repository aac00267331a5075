// Package analytics turns raw essay text into the token stream the scorer works on.
package analytics

import (
	"regexp"
	"strings"
)

// wordPattern matches maximal runs of letters, digits and underscores, the same
// set of characters a Unicode-aware \w covers. Apostrophes split words, so
// "don't" yields "don" and "t".
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases text and returns every word token in order, repetitions included.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// WordCount returns the number of tokens Tokenize would produce.
func WordCount(text string) int {
	return len(wordPattern.FindAllStringIndex(strings.ToLower(text), -1))
}

// Thesis returns the first two '.'-separated pieces of text joined by a single
// space. Text with fewer pieces is returned as far as it goes.
func Thesis(text string) string {
	parts := strings.SplitN(text, ".", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " ")
}
