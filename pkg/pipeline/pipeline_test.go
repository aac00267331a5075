package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/dtnitsch/essay-obscurity/models"
	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
	"github.com/dtnitsch/essay-obscurity/pkg/generation"
	"github.com/dtnitsch/essay-obscurity/pkg/ingest"
	"github.com/dtnitsch/essay-obscurity/pkg/obscurity"
	"github.com/dtnitsch/essay-obscurity/pkg/style"
	"github.com/dtnitsch/essay-obscurity/pkg/verdict"
)

const humanEssay = "The tide rises. The moon pulls the ocean and water to shore, sand and kelp and sea."

var commonReference = "the and a the and a the and a the and a the water sea"

type stubJudge struct {
	answer string
	err    error
}

func (j stubJudge) JudgeStyle(context.Context, string) (string, error) { return j.answer, j.err }

type failingService struct{}

func (failingService) Generate(context.Context, int, string) (string, error) {
	return "", errors.New("model unavailable")
}

type fakeGuard struct {
	info models.LanguageInfo
	err  error
}

func (g fakeGuard) Check(string, int) (models.LanguageInfo, error) { return g.info, g.err }

func testScorer(t *testing.T) *obscurity.Scorer {
	t.Helper()
	weights := map[string]float64{
		"the": 1000, "a": 800, "and": 500, "water": 30, "sea": 25, "ocean": 20,
		"tide": 10, "rises": 8, "sand": 6, "moon": 5, "shore": 4, "kelp": 1,
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	c, err := corpus.New(weights, total)
	if err != nil {
		t.Fatal(err)
	}
	return obscurity.NewScorer(c, obscurity.DefaultDropCount)
}

func newDetector(t *testing.T, svc generation.Service, judge style.Judge, mutate func(*Config)) *Detector {
	t.Helper()
	cfg := Config{
		Scorer:          testScorer(t),
		Sampler:         generation.NewSampler(svc, generation.Options{Samples: 3, Workers: 3}, nil),
		Judge:           judge,
		LegacyThreshold: 0.14,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return d
}

func staticService(t *testing.T, texts ...string) generation.Service {
	t.Helper()
	s, err := generation.NewStatic(texts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDetect(t *testing.T) {
	d := newDetector(t, staticService(t, commonReference), style.Fixed(models.LabelLikelyHuman), nil)

	report, err := d.Detect(context.Background(), &ingest.Essay{Source: "stdin", Text: humanEssay})
	if err != nil {
		t.Fatalf("Detect() failed: %v", err)
	}

	if report.WordCount != 17 {
		t.Errorf("WordCount = %d, want 17", report.WordCount)
	}
	if len(report.Words) != 15 {
		t.Errorf("len(Words) = %d, want 15 (two words are out of corpus)", len(report.Words))
	}
	if report.Thesis != "The tide rises  The moon pulls the ocean and water to shore, sand and kelp and sea" {
		t.Errorf("Thesis = %q", report.Thesis)
	}
	if len(report.References) != 3 {
		t.Fatalf("len(References) = %d, want 3", len(report.References))
	}
	v := report.Verdict
	if v == nil {
		t.Fatal("Verdict is nil")
	}
	if v.ReferenceCount != 3 {
		t.Errorf("ReferenceCount = %d, want 3", v.ReferenceCount)
	}
	if !(report.InputObscurity > v.ReferenceMean) {
		t.Errorf("input obscurity %v should exceed reference mean %v", report.InputObscurity, v.ReferenceMean)
	}
	if v.ObscurityConfidence <= 50 {
		t.Errorf("ObscurityConfidence = %v, want above 50", v.ObscurityConfidence)
	}
	if v.Label != verdict.DefaultEngine().Classify(v.FinalConfidence) {
		t.Errorf("Label %q does not match final confidence %v", v.Label, v.FinalConfidence)
	}
	if report.Style == nil || report.Style.Label != models.LabelLikelyHuman || report.Style.Confidence != 100 {
		t.Errorf("Style = %+v", report.Style)
	}
	if report.Legacy == nil || report.Legacy.Inapplicable || report.Legacy.Label == "" {
		t.Errorf("Legacy = %+v", report.Legacy)
	}
}

func TestDetect_EmptyInput(t *testing.T) {
	d := newDetector(t, staticService(t, commonReference), style.Fixed(models.LabelUnclear), nil)

	for _, text := range []string{"", "  ...  !!"} {
		_, err := d.Detect(context.Background(), &ingest.Essay{Text: text})
		var stageErr *StageError
		if !errors.As(err, &stageErr) || stageErr.Stage != StageInput {
			t.Errorf("Detect(%q) error = %v, want input stage error", text, err)
		}
		if !errors.Is(err, ingest.ErrEmptyInput) {
			t.Errorf("Detect(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestDetect_AllGenerationsFail(t *testing.T) {
	d := newDetector(t, failingService{}, style.Fixed(models.LabelUnclear), nil)

	_, err := d.Detect(context.Background(), &ingest.Essay{Text: humanEssay})
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageGeneration {
		t.Fatalf("Detect() error = %v, want generation stage error", err)
	}
	if !errors.Is(err, verdict.ErrInsufficientReferenceData) {
		t.Errorf("Detect() error = %v, want ErrInsufficientReferenceData", err)
	}
	if !errors.Is(err, generation.ErrGeneration) {
		t.Errorf("Detect() error = %v, want ErrGeneration", err)
	}
}

func TestDetect_UnscorableReferences(t *testing.T) {
	d := newDetector(t, staticService(t, "--- ... ---"), style.Fixed(models.LabelUnclear), nil)

	_, err := d.Detect(context.Background(), &ingest.Essay{Text: humanEssay})
	if !errors.Is(err, verdict.ErrInsufficientReferenceData) {
		t.Errorf("Detect() error = %v, want ErrInsufficientReferenceData", err)
	}
}

func TestDetect_StyleFailureFallsBackToUnclear(t *testing.T) {
	d := newDetector(t, staticService(t, commonReference), stubJudge{err: errors.New("judge offline")}, nil)

	report, err := d.Detect(context.Background(), &ingest.Essay{Text: humanEssay})
	if err != nil {
		t.Fatalf("Detect() failed: %v", err)
	}
	if report.Style.Label != models.LabelUnclear || report.Style.Error == "" {
		t.Errorf("Style = %+v, want Unclear with error", report.Style)
	}
	if report.Verdict.StyleConfidence != 50 {
		t.Errorf("StyleConfidence = %v, want 50", report.Verdict.StyleConfidence)
	}
}

func TestDetect_StyleJudgmentClassified(t *testing.T) {
	d := newDetector(t, staticService(t, commonReference), stubJudge{answer: "This is Likely AI."}, nil)

	report, err := d.Detect(context.Background(), &ingest.Essay{Text: humanEssay})
	if err != nil {
		t.Fatal(err)
	}
	if report.Style.Label != models.LabelLikelyAI || report.Style.Judgment != "This is Likely AI." {
		t.Errorf("Style = %+v", report.Style)
	}
}

func TestDetect_ShortEssayLegacyInapplicable(t *testing.T) {
	d := newDetector(t, staticService(t, commonReference), style.Fixed(models.LabelUnclear), nil)

	report, err := d.Detect(context.Background(), &ingest.Essay{Text: "The tide and the moon."})
	if err != nil {
		t.Fatalf("Detect() failed: %v", err)
	}
	if report.InputObscurity != 0 {
		t.Errorf("InputObscurity = %v, want 0 for a short essay", report.InputObscurity)
	}
	if report.Legacy == nil || !report.Legacy.Inapplicable {
		t.Errorf("Legacy = %+v, want inapplicable", report.Legacy)
	}
	if report.Verdict == nil {
		t.Error("Verdict is nil")
	}
}

func TestDetect_LanguageGuard(t *testing.T) {
	notEnglish := fakeGuard{
		info: models.LanguageInfo{Detected: "fr", Confidence: 0.9},
		err:  errors.New("essay is not in English"),
	}

	lenient := newDetector(t, staticService(t, commonReference), style.Fixed(models.LabelUnclear), func(c *Config) {
		c.Guard = notEnglish
	})
	report, err := lenient.Detect(context.Background(), &ingest.Essay{Text: humanEssay})
	if err != nil {
		t.Fatalf("lenient Detect() failed: %v", err)
	}
	if report.Language == nil || report.Language.Detected != "fr" {
		t.Errorf("Language = %+v", report.Language)
	}

	strict := newDetector(t, staticService(t, commonReference), style.Fixed(models.LabelUnclear), func(c *Config) {
		c.Guard = notEnglish
		c.StrictLanguage = true
	})
	_, err = strict.Detect(context.Background(), &ingest.Essay{Text: humanEssay})
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageInput {
		t.Errorf("strict Detect() error = %v, want input stage error", err)
	}
}

func TestDetect_Cancelled(t *testing.T) {
	d := newDetector(t, staticService(t, commonReference), style.Fixed(models.LabelUnclear), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Detect(ctx, &ingest.Essay{Text: humanEssay}); !errors.Is(err, context.Canceled) {
		t.Errorf("Detect() error = %v, want context.Canceled", err)
	}
}

func TestScore(t *testing.T) {
	d, err := New(Config{Scorer: testScorer(t), TopWords: 3})
	if err != nil {
		t.Fatal(err)
	}

	report, err := d.Score(context.Background(), &ingest.Essay{Text: humanEssay})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if report.Verdict != nil || report.References != nil {
		t.Errorf("Score() produced comparison fields: %+v", report)
	}
	if len(report.TopObscure) != 3 || report.TopObscure[0].Word != "kelp" {
		t.Errorf("TopObscure = %+v, want kelp first", report.TopObscure)
	}
	if report.InputObscurity == 0 {
		t.Error("InputObscurity = 0 for a 17-token essay")
	}
}

func TestDetect_RequiresCollaborators(t *testing.T) {
	d, err := New(Config{Scorer: testScorer(t)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Detect(context.Background(), &ingest.Essay{Text: humanEssay}); err == nil {
		t.Error("Detect() without sampler succeeded")
	}
	if _, err := New(Config{}); err == nil {
		t.Error("New() without scorer succeeded")
	}
}
