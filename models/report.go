// Package models defines the configuration and report types shared by the
// commands and the scoring packages.
package models

// WordScore is a scored word as shown in reports.
type WordScore struct {
	Word      string  `json:"word" yaml:"word"`
	Obscurity float64 `json:"obscurity" yaml:"obscurity"`
}

// ReferenceScore summarises one generated reference essay.
type ReferenceScore struct {
	Sample    int     `json:"sample" yaml:"sample"`
	WordCount int     `json:"word_count" yaml:"word_count"`
	Obscurity float64 `json:"obscurity" yaml:"obscurity"`
}

// LanguageInfo records what the language guard saw.
type LanguageInfo struct {
	Detected   string  `json:"detected,omitempty" yaml:"detected,omitempty"`
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	English    bool    `json:"english" yaml:"english"`
	Skipped    bool    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// LegacyResult is the outcome of the ratio rule. Inapplicable is set when the
// input obscurity is zero and the ratio is undefined.
type LegacyResult struct {
	Label        LegacyLabel `json:"label,omitempty" yaml:"label,omitempty"`
	Ratio        float64     `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Threshold    float64     `json:"threshold" yaml:"threshold"`
	Inapplicable bool        `json:"inapplicable,omitempty" yaml:"inapplicable,omitempty"`
}

// StyleResult is the secondary style judgment.
type StyleResult struct {
	Judgment   string  `json:"judgment" yaml:"judgment"`
	Label      Label   `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is everything a run prints. Score-only runs leave the comparison
// fields nil.
type Report struct {
	Source         string        `json:"source,omitempty" yaml:"source,omitempty"`
	WordCount      int           `json:"word_count" yaml:"word_count"`
	Words          []WordScore   `json:"words" yaml:"words"`
	TopObscure     []WordScore   `json:"top_obscure,omitempty" yaml:"top_obscure,omitempty"`
	InputObscurity float64       `json:"input_obscurity" yaml:"input_obscurity"`
	Language       *LanguageInfo `json:"language,omitempty" yaml:"language,omitempty"`

	Thesis            string           `json:"thesis,omitempty" yaml:"thesis,omitempty"`
	References        []ReferenceScore `json:"references,omitempty" yaml:"references,omitempty"`
	ReferenceFailures []string         `json:"reference_failures,omitempty" yaml:"reference_failures,omitempty"`
	Legacy            *LegacyResult    `json:"legacy,omitempty" yaml:"legacy,omitempty"`
	Style             *StyleResult     `json:"style,omitempty" yaml:"style,omitempty"`
	Verdict           *Verdict         `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type" yaml:"error_type"`
	Stage            string   `json:"stage,omitempty" yaml:"stage,omitempty"`
	Message          string   `json:"message" yaml:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty" yaml:"suggested_actions,omitempty"`
}
