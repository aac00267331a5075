// Package report renders run reports as text, YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/essay-obscurity/models"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, yaml or json)", s)
	}
}

// Write renders r to w.
func Write(w io.Writer, r *models.Report, format Format) error {
	switch format {
	case FormatYAML, FormatJSON:
		return Encode(w, r, format)
	default:
		return writeText(w, r)
	}
}

// Encode writes v as YAML or JSON.
func Encode(w io.Writer, v any, format Format) error {
	var data []byte
	var err error
	if format == FormatJSON {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteError renders a structured error. Text format prints the message and
// the suggested actions.
func WriteError(w io.Writer, info models.ErrorInfo, format Format) error {
	if format == FormatYAML || format == FormatJSON {
		return Encode(w, struct {
			Error models.ErrorInfo `json:"error" yaml:"error"`
		}{info}, format)
	}
	if _, err := fmt.Fprintf(w, "Error (%s): %s\n", info.Stage, info.Message); err != nil {
		return err
	}
	for _, action := range info.SuggestedActions {
		if _, err := fmt.Fprintf(w, "  - %s\n", action); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, r *models.Report) error {
	var b strings.Builder

	b.WriteString("Calculating obscurity for an input essay...\n")
	if r.Language != nil && !r.Language.English {
		fmt.Fprintf(&b, "Warning: essay looks like %q (confidence %.2f); obscurity assumes English.\n", r.Language.Detected, r.Language.Confidence)
	}

	b.WriteString("\nWord Obscurities for the input essay:\n")
	for _, ws := range r.Words {
		fmt.Fprintf(&b, "%s: %.4f\n", ws.Word, ws.Obscurity)
	}
	fmt.Fprintf(&b, "\nAverage Obscurity for the input essay (after removing outliers): %.4f\n", r.InputObscurity)

	if r.Verdict == nil {
		if len(r.TopObscure) > 0 {
			b.WriteString("\nMost obscure words:\n")
			for _, ws := range r.TopObscure {
				fmt.Fprintf(&b, "  %s: %.4f\n", ws.Word, ws.Obscurity)
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	v := r.Verdict
	fmt.Fprintf(&b, "\nAverage Obscurity for the %d generated essays (after removing outliers): %.4f\n", v.ReferenceCount, v.ReferenceMean)

	if r.Legacy != nil {
		if r.Legacy.Inapplicable {
			b.WriteString("\nResult: inapplicable (input obscurity is 0)\n")
		} else {
			fmt.Fprintf(&b, "\nResult: %s\n", r.Legacy.Label)
		}
	}

	fmt.Fprintf(&b, "\nConfidence Score (0-100): %.2f\n", v.ObscurityConfidence)
	b.WriteString("   (Higher = Less sure it's AI, based on empirical rule with std dev = 4)\n")

	b.WriteString("\nRunning repetition and list-based analysis...\n")
	if r.Style != nil {
		judgment := r.Style.Judgment
		if r.Style.Error != "" {
			judgment = fmt.Sprintf("%s (style judge failed: %s)", r.Style.Label, r.Style.Error)
		}
		fmt.Fprintf(&b, "Style-Based Report: %s\n", judgment)
	}
	fmt.Fprintf(&b, "Style-Based Confidence Score (0-100): %.2f\n", v.StyleConfidence)

	fmt.Fprintf(&b, "\nFinal Combined Confidence Score (0-100): %.2f\n", v.FinalConfidence)
	fmt.Fprintf(&b, "=> Final Verdict: %s\n", v.Label)

	_, err := io.WriteString(w, b.String())
	return err
}
