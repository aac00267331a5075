package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/dtnitsch/essay-obscurity/models"
	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
	dbpkg "github.com/dtnitsch/essay-obscurity/pkg/db"
	"github.com/dtnitsch/essay-obscurity/pkg/fetcher"
	"github.com/dtnitsch/essay-obscurity/pkg/ingest"
	"github.com/dtnitsch/essay-obscurity/pkg/language"
	"github.com/dtnitsch/essay-obscurity/pkg/llm"
	"github.com/dtnitsch/essay-obscurity/pkg/parser"
	"github.com/dtnitsch/essay-obscurity/pkg/pipeline"
	"github.com/dtnitsch/essay-obscurity/pkg/report"
	"github.com/dtnitsch/essay-obscurity/pkg/verdict"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger. --quiet and --verbose win over the
// configured level.
func NewLogger(c *cli.Context, level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads the config file named by --config and applies flag
// overrides on top.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("corpus") {
		cfg.Corpus.Source = c.String("corpus")
	}
	if c.IsSet("corpus-name") {
		cfg.Corpus.Name = c.String("corpus-name")
	}
	if c.IsSet("samples") {
		cfg.Generation.Samples = c.Int("samples")
	}
	if c.IsSet("workers") {
		cfg.Generation.Workers = c.Int("workers")
	}
	if c.IsSet("cache-dir") {
		cfg.Generation.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("legacy-threshold") {
		cfg.Scoring.LegacyThreshold = c.Float64("legacy-threshold")
	}
	if c.IsSet("model") {
		cfg.LLM.Model = c.String("model")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCorpus loads the reference corpus from a CSV file or a SQLite store.
func LoadCorpus(ctx context.Context, cfg models.CorpusConfig) (*corpus.Corpus, error) {
	if !cfg.IsSQLiteSource() {
		return corpus.LoadCSV(cfg.Source)
	}
	if _, err := os.Stat(cfg.Source); err != nil {
		return nil, &corpus.LoadError{Path: cfg.Source, Err: err}
	}

	database, err := dbpkg.Open(cfg.Source)
	if err != nil {
		return nil, &corpus.LoadError{Path: cfg.Source, Err: err}
	}
	defer database.Close()
	return database.LoadCorpus(ctx, cfg.Name)
}

// ReadEssay reads the essay from --url, --input or stdin, in that order.
func ReadEssay(ctx context.Context, c *cli.Context) (*ingest.Essay, error) {
	if raw := c.String("url"); raw != "" {
		u, err := ValidateURL(raw)
		if err != nil {
			return nil, err
		}
		return ingest.FromURL(ctx, fetcher.NewFetcher(), &parser.Parser{}, u)
	}

	if path := c.String("input"); path != "" && path != "-" {
		return ingest.ReadFile(path)
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "Enter your essay (press Ctrl+D to finish):")
	}
	text, err := ingest.ReadText(os.Stdin)
	if err != nil {
		return nil, err
	}
	return &ingest.Essay{Source: "stdin", Text: text}, nil
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown link syntax.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	markdownLinkPattern := regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	cleaned = strings.TrimRight(cleaned, ",.)}]\"'>;")
	cleaned = strings.TrimLeft(cleaned, "([<\"'")
	return strings.TrimSpace(cleaned)
}

// ValidateURL sanitizes rawURL and checks that it is an absolute http(s) URL.
func ValidateURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" || strings.Contains(cleaned, " ") {
		return "", fmt.Errorf("invalid URL %q", rawURL)
	}
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return "", fmt.Errorf("invalid URL %q: missing or malformed host", rawURL)
	}
	return cleaned, nil
}

// ErrorInfoFor classifies err into a structured error with suggestions.
func ErrorInfoFor(err error) models.ErrorInfo {
	info := models.ErrorInfo{Type: "internal_error", Message: err.Error()}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		info.Stage = string(stageErr.Stage)
	}

	switch {
	case errors.Is(err, context.Canceled):
		info.Type = "interrupted"
	case errors.Is(err, corpus.ErrCorpusLoad):
		info.Type = "corpus_load_error"
		info.Stage = string(pipeline.StageCorpus)
		info.SuggestedActions = []string{
			"Check that the corpus file exists (default unigram_freq.csv) or pass --corpus",
			"Import a CSV once with 'essay-obscurity corpus import --csv <file> --db <file>'",
		}
	case errors.Is(err, ingest.ErrEmptyInput):
		info.Type = "empty_input"
		info.SuggestedActions = []string{"Pipe an essay on stdin, or pass --input <file> or --url <page>"}
	case errors.Is(err, language.ErrNotEnglish):
		info.Type = "unsupported_language"
		info.SuggestedActions = []string{"Only English essays can be scored against an English corpus", "Set language.strict: false to score anyway"}
	case errors.Is(err, llm.ErrMissingAPIKey):
		info.Type = "missing_api_key"
		info.SuggestedActions = []string{"Set OPENAI_API_KEY in the environment or a .env file", "Run offline with --reference <files> and --style <label>"}
	case errors.Is(err, verdict.ErrInsufficientReferenceData):
		info.Type = "insufficient_reference_data"
		info.SuggestedActions = []string{"Check the model endpoint, model name and API key", "Raise generation.retries or generation.timeout", "Provide reference essays with --reference"}
	case errors.Is(err, llm.ErrRateLimited):
		info.Type = "rate_limited"
		info.SuggestedActions = []string{"Wait and retry, or lower --workers"}
	}
	return info
}

// ExitCode is 2 when the corpus failed to load and 1 for any other failure.
func ExitCode(err error) int {
	if errors.Is(err, corpus.ErrCorpusLoad) {
		return 2
	}
	return 1
}

// Fail reports err and returns the exit error for the action. Text mode
// writes to stderr; yaml and json write the structured error to stdout.
func Fail(logger *slog.Logger, err error, format report.Format) error {
	info := ErrorInfoFor(err)
	logger.Debug("run failed", "stage", info.Stage, "type", info.Type, "error", err)

	out := os.Stdout
	if format == report.FormatText {
		out = os.Stderr
	}
	if writeErr := report.WriteError(out, info, format); writeErr != nil {
		logger.Error("failed to write error", "error", writeErr)
	}
	return cli.Exit("", ExitCode(err))
}
