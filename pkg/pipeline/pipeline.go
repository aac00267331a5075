// Package pipeline runs an essay through scoring, reference generation, the
// style judgment and the verdict, and collects everything into a report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/essay-obscurity/models"
	"github.com/dtnitsch/essay-obscurity/pkg/analytics"
	"github.com/dtnitsch/essay-obscurity/pkg/generation"
	"github.com/dtnitsch/essay-obscurity/pkg/ingest"
	"github.com/dtnitsch/essay-obscurity/pkg/obscurity"
	"github.com/dtnitsch/essay-obscurity/pkg/style"
	"github.com/dtnitsch/essay-obscurity/pkg/verdict"
)

// Stage names the step a run failed in.
type Stage string

const (
	StageCorpus     Stage = "corpus load"
	StageInput      Stage = "input"
	StageGeneration Stage = "generation"
	StageScoring    Stage = "scoring"
	StageStyle      Stage = "style"
)

// StageError tags an error with the stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// LanguageChecker reports the language of an essay.
type LanguageChecker interface {
	Check(text string, tokenCount int) (models.LanguageInfo, error)
}

// DefaultTopWords is how many of the most obscure words a report lists.
const DefaultTopWords = 10

// Config wires a Detector. Scorer is required. Sampler and Judge are only
// needed by Detect, and Guard may be nil to skip the language check.
type Config struct {
	Scorer          *obscurity.Scorer
	Sampler         *generation.Sampler
	Judge           style.Judge
	Engine          verdict.Engine
	Guard           LanguageChecker
	StrictLanguage  bool
	LegacyThreshold float64
	TopWords        int
	Logger          *slog.Logger
}

// Detector runs essays through the pipeline.
type Detector struct {
	cfg    Config
	logger *slog.Logger
}

// New returns a Detector. A zero Engine is replaced by verdict.DefaultEngine.
func New(cfg Config) (*Detector, error) {
	if cfg.Scorer == nil {
		return nil, errors.New("pipeline needs a scorer")
	}
	if cfg.Engine == (verdict.Engine{}) {
		cfg.Engine = verdict.DefaultEngine()
	}
	if cfg.TopWords <= 0 {
		cfg.TopWords = DefaultTopWords
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Detector{cfg: cfg, logger: logger}, nil
}

// Score profiles the essay only. It never calls a model.
func (d *Detector) Score(ctx context.Context, essay *ingest.Essay) (*models.Report, error) {
	report, _, err := d.score(ctx, essay)
	return report, err
}

func (d *Detector) score(ctx context.Context, essay *ingest.Essay) (*models.Report, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, &StageError{Stage: StageInput, Err: err}
	}

	tokens := analytics.Tokenize(essay.Text)
	if len(tokens) == 0 {
		return nil, nil, &StageError{Stage: StageInput, Err: ingest.ErrEmptyInput}
	}
	report := &models.Report{Source: essay.Source, WordCount: len(tokens)}

	if d.cfg.Guard != nil {
		info, err := d.cfg.Guard.Check(essay.Text, len(tokens))
		report.Language = &info
		if err != nil {
			if d.cfg.StrictLanguage {
				return nil, nil, &StageError{Stage: StageInput, Err: err}
			}
			d.logger.Warn("essay may not be English, scores are unreliable", "language", info.Detected, "confidence", info.Confidence)
		}
	}

	profile, err := d.cfg.Scorer.Profile(tokens)
	if err != nil {
		return nil, nil, &StageError{Stage: StageScoring, Err: err}
	}
	if profile.ZeroWeight > 0 {
		d.logger.Warn("skipped words with zero corpus weight", "count", profile.ZeroWeight, "error", obscurity.ErrCorpusData)
	}
	d.logger.Debug("input essay scored", "tokens", len(tokens), "scored", len(profile.Words), "kept", len(profile.Trimmed))

	report.Words = wordScores(profile.Words)
	report.TopObscure = wordScores(profile.TopObscure(d.cfg.TopWords))
	report.InputObscurity = profile.Mean
	return report, tokens, nil
}

// Detect scores the essay, generates references on its thesis, asks the style
// judge and evaluates the verdict.
func (d *Detector) Detect(ctx context.Context, essay *ingest.Essay) (*models.Report, error) {
	if d.cfg.Sampler == nil || d.cfg.Judge == nil {
		return nil, errors.New("detection needs a reference sampler and a style judge")
	}

	report, tokens, err := d.score(ctx, essay)
	if err != nil {
		return nil, err
	}

	report.Thesis = analytics.Thesis(essay.Text)
	d.logger.Info("generating reference essays", "samples", d.cfg.Sampler.Samples(), "words", len(tokens))
	result, err := d.cfg.Sampler.Collect(ctx, len(tokens), report.Thesis)
	for _, f := range result.Failures {
		report.ReferenceFailures = append(report.ReferenceFailures, f.Error())
	}
	if err != nil {
		return nil, &StageError{Stage: StageGeneration, Err: err}
	}

	refs := make([]float64, 0, len(result.Samples))
	for _, s := range result.Samples {
		refTokens := analytics.Tokenize(s.Text)
		p, err := d.cfg.Scorer.Profile(refTokens)
		if err != nil {
			d.logger.Warn("reference essay could not be scored", "sample", s.Index, "error", err)
			report.ReferenceFailures = append(report.ReferenceFailures, fmt.Sprintf("sample %d: %v", s.Index, err))
			continue
		}
		refs = append(refs, p.Mean)
		report.References = append(report.References, models.ReferenceScore{
			Sample:    s.Index,
			WordCount: len(refTokens),
			Obscurity: p.Mean,
		})
	}
	if len(refs) == 0 {
		return nil, &StageError{Stage: StageGeneration, Err: verdict.ErrInsufficientReferenceData}
	}

	report.Legacy = d.legacy(report.InputObscurity, verdict.Mean(refs))

	styleResult, err := d.judge(ctx, essay.Text)
	if err != nil {
		return nil, &StageError{Stage: StageStyle, Err: err}
	}
	report.Style = styleResult

	v, err := d.cfg.Engine.Evaluate(report.InputObscurity, refs, styleResult.Label)
	if err != nil {
		return nil, &StageError{Stage: StageScoring, Err: err}
	}
	report.Verdict = &v

	d.logger.Info("verdict", "label", v.Label, "final_confidence", v.FinalConfidence, "references", len(refs))
	return report, nil
}

func (d *Detector) legacy(input, refMean float64) *models.LegacyResult {
	res := &models.LegacyResult{Threshold: d.cfg.LegacyThreshold}
	label, ratio, err := verdict.Legacy(input, refMean, d.cfg.LegacyThreshold)
	if err != nil {
		d.logger.Warn("ratio rule inapplicable", "error", err)
		res.Inapplicable = true
		return res
	}
	res.Label = label
	res.Ratio = ratio
	return res
}

// judge asks for the style judgment. A failing judge is not fatal: the label
// falls back to Unclear and the error is kept in the result. Cancellation is.
func (d *Detector) judge(ctx context.Context, text string) (*models.StyleResult, error) {
	judgment, err := d.cfg.Judge.JudgeStyle(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		d.logger.Warn("style judgment failed, using Unclear", "error", err)
		return &models.StyleResult{
			Label:      models.LabelUnclear,
			Confidence: style.Confidence(models.LabelUnclear),
			Error:      err.Error(),
		}, nil
	}

	label := style.Classify(judgment)
	return &models.StyleResult{
		Judgment:   judgment,
		Label:      label,
		Confidence: style.Confidence(label),
	}, nil
}

func wordScores(words []obscurity.WordObscurity) []models.WordScore {
	out := make([]models.WordScore, len(words))
	for i, w := range words {
		out[i] = models.WordScore{Word: w.Word, Obscurity: w.Value}
	}
	return out
}
