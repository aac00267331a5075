package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no --config flag is given. A missing default
// file is not an error.
const DefaultConfigPath = "essay-obscurity.yaml"

// Config holds runtime configuration. Values are layered: defaults, then the
// YAML file, then .env and the process environment, then CLI flags.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Generation GenerationConfig `yaml:"generation"`
	LLM        LLMConfig        `yaml:"llm"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Language   LanguageConfig   `yaml:"language"`
	Log        LogConfig        `yaml:"log"`
}

// CorpusConfig selects the reference frequency table.
// Source is a CSV file, or a SQLite file (.db, .sqlite) holding imported corpora.
type CorpusConfig struct {
	Source string `yaml:"source"`
	Name   string `yaml:"name"`
}

// GenerationConfig controls how reference essays are produced.
type GenerationConfig struct {
	Samples  int           `yaml:"samples"`
	Workers  int           `yaml:"workers"`
	Timeout  time.Duration `yaml:"timeout"`
	Retries  int           `yaml:"retries"`
	Backoff  time.Duration `yaml:"backoff"`
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LLMConfig configures the OpenAI-compatible chat completion endpoint.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Temperature *float64      `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ScoringConfig holds the tunable constants of the obscurity comparison.
type ScoringConfig struct {
	TrimCount       int     `yaml:"trim_count"`
	LegacyThreshold float64 `yaml:"legacy_threshold"`
}

// LanguageConfig controls the English-only input guard.
type LanguageConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Strict        bool    `yaml:"strict"`
	MinConfidence float64 `yaml:"min_confidence"`
}

// LogConfig sets the slog level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Source: "unigram_freq.csv",
			Name:   "default",
		},
		Generation: GenerationConfig{
			Samples:  3,
			Workers:  3,
			Timeout:  60 * time.Second,
			Retries:  1,
			Backoff:  time.Second,
			CacheTTL: 7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4",
			Timeout: 90 * time.Second,
		},
		Scoring: ScoringConfig{
			TrimCount:       10,
			LegacyThreshold: 0.14,
		},
		Language: LanguageConfig{
			Enabled:       true,
			MinConfidence: 0.5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path and
// the environment. An empty path reads DefaultConfigPath if it exists.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// A missing .env is normal; variables already set in the environment win.
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnvOrDefault("OPENAI_MODEL", c.LLM.Model)
	c.Corpus.Source = getEnvOrDefault("ESSAY_CORPUS", c.Corpus.Source)
	c.Log.Level = getEnvOrDefault("ESSAY_LOG_LEVEL", c.Log.Level)
	c.Generation.Samples = getEnvAsInt("ESSAY_SAMPLES", c.Generation.Samples)
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Corpus.Source) == "" {
		problems = append(problems, "corpus.source must be set")
	}
	if c.Generation.Samples < 1 {
		problems = append(problems, fmt.Sprintf("generation.samples must be at least 1, got %d", c.Generation.Samples))
	}
	if c.Generation.Workers < 1 {
		problems = append(problems, fmt.Sprintf("generation.workers must be at least 1, got %d", c.Generation.Workers))
	}
	if c.Generation.Timeout <= 0 {
		problems = append(problems, "generation.timeout must be positive")
	}
	if c.Generation.Retries < 0 {
		problems = append(problems, "generation.retries must not be negative")
	}
	if c.Scoring.TrimCount < 0 {
		problems = append(problems, "scoring.trim_count must not be negative")
	}
	if c.Scoring.LegacyThreshold <= 0 {
		problems = append(problems, "scoring.legacy_threshold must be positive")
	}
	if c.Language.MinConfidence < 0 || c.Language.MinConfidence > 1 {
		problems = append(problems, "language.min_confidence must be between 0 and 1")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// IsSQLiteSource reports whether the corpus source names a SQLite database.
func (c CorpusConfig) IsSQLiteSource() bool {
	switch strings.ToLower(filepath.Ext(c.Source)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
