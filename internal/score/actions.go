package score

import (
	"fmt"
	"os"

	"github.com/dtnitsch/essay-obscurity/internal/common"
	"github.com/dtnitsch/essay-obscurity/pkg/language"
	"github.com/dtnitsch/essay-obscurity/pkg/obscurity"
	"github.com/dtnitsch/essay-obscurity/pkg/pipeline"
	"github.com/dtnitsch/essay-obscurity/pkg/report"
	"github.com/urfave/cli/v2"
)

// ScoreAction prints the obscurity profile of an essay without generating
// references.
func ScoreAction(c *cli.Context) error {
	format, err := report.ParseFormat(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	logger := common.NewLogger(c, cfg.Log.Level)
	ctx := c.Context

	crp, err := common.LoadCorpus(ctx, cfg.Corpus)
	if err != nil {
		return common.Fail(logger, &pipeline.StageError{Stage: pipeline.StageCorpus, Err: err}, format)
	}

	essay, err := common.ReadEssay(ctx, c)
	if err != nil {
		return common.Fail(logger, &pipeline.StageError{Stage: pipeline.StageInput, Err: err}, format)
	}

	scorer := obscurity.NewScorer(crp, cfg.Scoring.TrimCount)
	logger.Debug("scoring against corpus", "words", scorer.Corpus().Len(), "total", scorer.Corpus().Total(), "trim", scorer.DropCount())

	pcfg := pipeline.Config{
		Scorer:         scorer,
		StrictLanguage: cfg.Language.Strict,
		TopWords:       c.Int("top"),
		Logger:         logger,
	}
	if cfg.Language.Enabled {
		pcfg.Guard = language.NewGuard(cfg.Language.MinConfidence)
	}
	detector, err := pipeline.New(pcfg)
	if err != nil {
		return common.Fail(logger, err, format)
	}

	result, err := detector.Score(ctx, essay)
	if err != nil {
		return common.Fail(logger, err, format)
	}

	if err := report.Write(os.Stdout, result, format); err != nil {
		return cli.Exit(fmt.Sprintf("Error: failed to write report: %v", err), 1)
	}
	return nil
}
