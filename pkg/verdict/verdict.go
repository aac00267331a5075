// Package verdict turns an essay's obscurity profile and the profiles of its
// generated references into a confidence score and a label.
package verdict

import (
	"errors"
	"fmt"
	"math"

	"github.com/dtnitsch/essay-obscurity/models"
	"github.com/dtnitsch/essay-obscurity/pkg/style"
)

var (
	// ErrInsufficientReferenceData is returned when no reference profile is
	// available to compare against.
	ErrInsufficientReferenceData = errors.New("insufficient reference data")
	// ErrDivisionByZero is returned by Legacy when the input obscurity is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Engine holds the constants of the comparison.
type Engine struct {
	StdDev          float64
	ObscurityWeight float64
	StyleWeight     float64
	AIBelow         float64
	HumanAbove      float64
}

// DefaultEngine returns the engine with an empirical standard deviation of 4,
// a 75/25 obscurity/style blend and label thresholds of 50 and 70.
func DefaultEngine() Engine {
	return Engine{
		StdDev:          4,
		ObscurityWeight: 0.75,
		StyleWeight:     0.25,
		AIBelow:         50,
		HumanAbove:      70,
	}
}

// Evaluate compares the input profile mean with the mean of the reference
// profile means and blends in the style label.
func (e Engine) Evaluate(input float64, refs []float64, styleLabel models.Label) (models.Verdict, error) {
	if len(refs) == 0 {
		return models.Verdict{}, ErrInsufficientReferenceData
	}

	refMean := Mean(refs)
	diff := input - refMean
	z := diff / e.StdDev
	obscurityConfidence := NormalCDF(z) * 100
	styleConfidence := style.Confidence(styleLabel)
	final := e.ObscurityWeight*obscurityConfidence + e.StyleWeight*styleConfidence

	return models.Verdict{
		InputObscurity:      input,
		ReferenceMean:       refMean,
		ReferenceCount:      len(refs),
		Difference:          diff,
		ZScore:              z,
		ObscurityConfidence: obscurityConfidence,
		StyleLabel:          styleLabel,
		StyleConfidence:     styleConfidence,
		FinalConfidence:     final,
		Label:               e.Classify(final),
	}, nil
}

// Classify maps a final confidence score to a label.
func (e Engine) Classify(final float64) models.Label {
	switch {
	case final < e.AIBelow:
		return models.LabelLikelyAI
	case final > e.HumanAbove:
		return models.LabelLikelyHuman
	default:
		return models.LabelUnclear
	}
}

// Legacy applies the ratio rule: a relative difference within threshold reads
// as AI. It returns the label and the ratio.
func Legacy(input, refMean, threshold float64) (models.LegacyLabel, float64, error) {
	if input == 0 {
		return "", 0, fmt.Errorf("ratio of difference to input obscurity: %w", ErrDivisionByZero)
	}
	ratio := math.Abs(input-refMean) / input
	if ratio <= threshold {
		return models.LegacyAI, ratio, nil
	}
	return models.LegacyHuman, ratio, nil
}

// Mean returns the arithmetic mean of values, or 0 for none.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// NormalCDF is the standard normal cumulative distribution function.
func NormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
