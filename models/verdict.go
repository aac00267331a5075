package models

// Label is the final authorship call. The values double as the literal phrases
// the style judge is asked to answer with.
type Label string

const (
	LabelLikelyAI    Label = "Likely AI"
	LabelLikelyHuman Label = "Likely Human"
	LabelUnclear     Label = "Unclear"
)

// LegacyLabel is the binary call of the ratio rule.
type LegacyLabel string

const (
	LegacyAI    LegacyLabel = "AI"
	LegacyHuman LegacyLabel = "HUMAN"
)

// Verdict is the outcome of comparing an essay's profile with its references.
type Verdict struct {
	InputObscurity      float64 `json:"input_obscurity" yaml:"input_obscurity"`
	ReferenceMean       float64 `json:"reference_mean" yaml:"reference_mean"`
	ReferenceCount      int     `json:"reference_count" yaml:"reference_count"`
	Difference          float64 `json:"difference" yaml:"difference"`
	ZScore              float64 `json:"z_score" yaml:"z_score"`
	ObscurityConfidence float64 `json:"obscurity_confidence" yaml:"obscurity_confidence"`
	StyleLabel          Label   `json:"style_label" yaml:"style_label"`
	StyleConfidence     float64 `json:"style_confidence" yaml:"style_confidence"`
	FinalConfidence     float64 `json:"final_confidence" yaml:"final_confidence"`
	Label               Label   `json:"label" yaml:"label"`
}
