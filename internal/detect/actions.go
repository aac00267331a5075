package detect

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/essay-obscurity/internal/common"
	"github.com/dtnitsch/essay-obscurity/models"
	"github.com/dtnitsch/essay-obscurity/pkg/caching"
	"github.com/dtnitsch/essay-obscurity/pkg/generation"
	"github.com/dtnitsch/essay-obscurity/pkg/ingest"
	"github.com/dtnitsch/essay-obscurity/pkg/language"
	"github.com/dtnitsch/essay-obscurity/pkg/llm"
	"github.com/dtnitsch/essay-obscurity/pkg/obscurity"
	"github.com/dtnitsch/essay-obscurity/pkg/pipeline"
	"github.com/dtnitsch/essay-obscurity/pkg/report"
	"github.com/dtnitsch/essay-obscurity/pkg/style"
	"github.com/dtnitsch/essay-obscurity/pkg/verdict"
	"github.com/urfave/cli/v2"
)

// DetectAction reads an essay, compares it with generated references and
// prints the verdict. It is also the root command's action.
func DetectAction(c *cli.Context) error {
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
	logger.Debug("corpus loaded", "source", cfg.Corpus.Source, "words", crp.Len(), "total", crp.Total())

	essay, err := common.ReadEssay(ctx, c)
	if err != nil {
		return common.Fail(logger, &pipeline.StageError{Stage: pipeline.StageInput, Err: err}, format)
	}

	service, judge, err := collaborators(c, cfg, logger)
	if err != nil {
		return common.Fail(logger, err, format)
	}

	pcfg := pipeline.Config{
		Scorer: obscurity.NewScorer(crp, cfg.Scoring.TrimCount),
		Sampler: generation.NewSampler(service, generation.Options{
			Samples: cfg.Generation.Samples,
			Workers: cfg.Generation.Workers,
			Timeout: cfg.Generation.Timeout,
			Retries: cfg.Generation.Retries,
			Backoff: cfg.Generation.Backoff,
		}, logger),
		Judge:           judge,
		Engine:          verdict.DefaultEngine(),
		StrictLanguage:  cfg.Language.Strict,
		LegacyThreshold: cfg.Scoring.LegacyThreshold,
		Logger:          logger,
	}
	if cfg.Language.Enabled {
		pcfg.Guard = language.NewGuard(cfg.Language.MinConfidence)
	}

	detector, err := pipeline.New(pcfg)
	if err != nil {
		return common.Fail(logger, err, format)
	}

	result, err := detector.Detect(ctx, essay)
	if err != nil {
		return common.Fail(logger, err, format)
	}

	if err := report.Write(os.Stdout, result, format); err != nil {
		return cli.Exit(fmt.Sprintf("Error: failed to write report: %v", err), 1)
	}
	return nil
}

// collaborators builds the reference service and the style judge. Reference
// files and a fixed style label avoid the model entirely; otherwise both use
// the configured chat completion endpoint.
func collaborators(c *cli.Context, cfg *models.Config, logger *slog.Logger) (generation.Service, style.Judge, error) {
	var client *llm.Client
	getClient := func() (*llm.Client, error) {
		if client != nil {
			return client, nil
		}
		var err error
		client, err = llm.NewClient(llm.Options{
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		return client, err
	}

	var service generation.Service
	if paths := c.StringSlice("reference"); len(paths) > 0 {
		texts := make([]string, 0, len(paths))
		for _, path := range paths {
			essay, err := ingest.ReadFile(path)
			if err != nil {
				return nil, nil, &pipeline.StageError{Stage: pipeline.StageGeneration, Err: err}
			}
			texts = append(texts, essay.Text)
		}
		static, err := generation.NewStatic(texts)
		if err != nil {
			return nil, nil, &pipeline.StageError{Stage: pipeline.StageGeneration, Err: err}
		}
		service = static
		logger.Info("using reference essays from files", "files", len(paths))
	} else {
		cl, err := getClient()
		if err != nil {
			return nil, nil, &pipeline.StageError{Stage: pipeline.StageGeneration, Err: err}
		}
		logger.Info("generating references with model", "model", cl.Model())
		service = llm.NewGenerator(cl)
		if cfg.Generation.CacheDir != "" {
			cache, err := caching.NewCache(cfg.Generation.CacheDir, cfg.Generation.CacheTTL)
			if err != nil {
				return nil, nil, &pipeline.StageError{Stage: pipeline.StageGeneration, Err: err}
			}
			service = generation.NewCached(service, cache, logger)
		}
	}

	if s := c.String("style"); s != "" {
		label, err := style.ParseLabel(s)
		if err != nil {
			return nil, nil, &pipeline.StageError{Stage: pipeline.StageStyle, Err: err}
		}
		return service, style.Fixed(label), nil
	}
	cl, err := getClient()
	if err != nil {
		return nil, nil, &pipeline.StageError{Stage: pipeline.StageStyle, Err: err}
	}
	logger.Debug("judging style with model", "model", cl.Model())
	return service, llm.NewStyleJudge(cl), nil
}
