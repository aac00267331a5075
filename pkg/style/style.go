// Package style maps a free-text style judgment to a label and a confidence.
package style

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtnitsch/essay-obscurity/models"
)

// Judge returns a free-text judgment of whether text reads as machine written.
// Answers are expected to contain "Likely AI", "Likely Human" or "Unclear".
type Judge interface {
	JudgeStyle(ctx context.Context, text string) (string, error)
}

// Classify maps a judgment to a label by substring containment.
// "Likely AI" is checked before "Likely Human".
func Classify(judgment string) models.Label {
	switch {
	case strings.Contains(judgment, string(models.LabelLikelyAI)):
		return models.LabelLikelyAI
	case strings.Contains(judgment, string(models.LabelLikelyHuman)):
		return models.LabelLikelyHuman
	default:
		return models.LabelUnclear
	}
}

// Confidence is the human-authorship confidence of a label: 0, 100 or 50.
func Confidence(label models.Label) float64 {
	switch label {
	case models.LabelLikelyAI:
		return 0
	case models.LabelLikelyHuman:
		return 100
	default:
		return 50
	}
}

// Fixed is a Judge that always answers with the same label.
type Fixed models.Label

// JudgeStyle returns the fixed label.
func (f Fixed) JudgeStyle(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(f), nil
}

// ParseLabel reads a label as given on the command line. It accepts the label
// text in any case and the short forms "ai" and "human".
func ParseLabel(s string) (models.Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ai", "likely ai", "likely-ai":
		return models.LabelLikelyAI, nil
	case "human", "likely human", "likely-human":
		return models.LabelLikelyHuman, nil
	case "unclear":
		return models.LabelUnclear, nil
	default:
		return "", fmt.Errorf("unknown style label %q (want ai, human or unclear)", s)
	}
}
