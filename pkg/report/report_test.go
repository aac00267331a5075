package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dtnitsch/essay-obscurity/models"
	"gopkg.in/yaml.v3"
)

func sampleReport() *models.Report {
	return &models.Report{
		Source:         "stdin",
		WordCount:      3,
		Words:          []models.WordScore{{Word: "tide", Obscurity: 3.8231}, {Word: "kelp", Obscurity: 7.15}},
		InputObscurity: 2,
		References:     []models.ReferenceScore{{Sample: 1, WordCount: 10, Obscurity: 1}},
		Legacy:         &models.LegacyResult{Label: models.LegacyHuman, Ratio: 0.5, Threshold: 0.14},
		Style:          &models.StyleResult{Judgment: "Likely Human", Label: models.LabelLikelyHuman, Confidence: 100},
		Verdict: &models.Verdict{
			InputObscurity:      2,
			ReferenceMean:       1,
			ReferenceCount:      3,
			Difference:          1,
			ZScore:              0.25,
			ObscurityConfidence: 59.8706,
			StyleLabel:          models.LabelLikelyHuman,
			StyleConfidence:     100,
			FinalConfidence:     69.903,
			Label:               models.LabelUnclear,
		},
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(), FormatText); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	out := buf.String()

	wantLines := []string{
		"Calculating obscurity for an input essay...",
		"Word Obscurities for the input essay:",
		"tide: 3.8231",
		"kelp: 7.1500",
		"Average Obscurity for the input essay (after removing outliers): 2.0000",
		"Average Obscurity for the 3 generated essays (after removing outliers): 1.0000",
		"Result: HUMAN",
		"Confidence Score (0-100): 59.87",
		"Running repetition and list-based analysis...",
		"Style-Based Report: Likely Human",
		"Style-Based Confidence Score (0-100): 100.00",
		"Final Combined Confidence Score (0-100): 69.90",
		"=> Final Verdict: Unclear",
	}
	last := -1
	for _, want := range wantLines {
		i := strings.Index(out, want)
		if i < 0 {
			t.Errorf("output missing %q", want)
			continue
		}
		if i < last {
			t.Errorf("%q out of order", want)
		}
		last = i
	}
}

func TestWrite_TextInapplicableAndStyleError(t *testing.T) {
	r := sampleReport()
	r.Legacy = &models.LegacyResult{Threshold: 0.14, Inapplicable: true}
	r.Style = &models.StyleResult{Label: models.LabelUnclear, Confidence: 50, Error: "timeout"}

	var buf bytes.Buffer
	if err := Write(&buf, r, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Result: inapplicable") {
		t.Errorf("output missing inapplicable result:\n%s", out)
	}
	if !strings.Contains(out, "Style-Based Report: Unclear (style judge failed: timeout)") {
		t.Errorf("output missing style failure:\n%s", out)
	}
}

func TestWrite_TextScoreOnly(t *testing.T) {
	r := &models.Report{
		Words:          []models.WordScore{{Word: "kelp", Obscurity: 7}},
		TopObscure:     []models.WordScore{{Word: "kelp", Obscurity: 7}},
		InputObscurity: 0,
	}
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "generated essays") || strings.Contains(out, "Final Verdict") {
		t.Errorf("score-only output has comparison lines:\n%s", out)
	}
	if !strings.Contains(out, "Most obscure words:") {
		t.Errorf("score-only output missing top words:\n%s", out)
	}
}

func TestWrite_YAMLAndJSON(t *testing.T) {
	r := sampleReport()

	var y bytes.Buffer
	if err := Write(&y, r, FormatYAML); err != nil {
		t.Fatal(err)
	}
	var fromYAML models.Report
	if err := yaml.Unmarshal(y.Bytes(), &fromYAML); err != nil {
		t.Fatalf("YAML output does not parse: %v", err)
	}
	if fromYAML.Verdict == nil || fromYAML.Verdict.Label != models.LabelUnclear {
		t.Errorf("YAML verdict = %+v", fromYAML.Verdict)
	}

	var j bytes.Buffer
	if err := Write(&j, r, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var fromJSON map[string]any
	if err := json.Unmarshal(j.Bytes(), &fromJSON); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if _, ok := fromJSON["verdict"]; !ok {
		t.Errorf("JSON output missing verdict: %s", j.String())
	}
}

func TestWriteError(t *testing.T) {
	info := models.ErrorInfo{Type: "corpus_load", Stage: "corpus load", Message: "file not found", SuggestedActions: []string{"pass --corpus"}}

	var text bytes.Buffer
	if err := WriteError(&text, info, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "Error (corpus load): file not found") || !strings.Contains(text.String(), "- pass --corpus") {
		t.Errorf("text error = %q", text.String())
	}

	var y bytes.Buffer
	if err := WriteError(&y, info, FormatYAML); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(y.String(), "error_type: corpus_load") {
		t.Errorf("yaml error = %q", y.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
