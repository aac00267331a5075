package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dtnitsch/essay-obscurity/internal/common"
	"github.com/dtnitsch/essay-obscurity/pkg/analytics"
	"github.com/dtnitsch/essay-obscurity/pkg/corpus"
	dbpkg "github.com/dtnitsch/essay-obscurity/pkg/db"
	"github.com/dtnitsch/essay-obscurity/pkg/ingest"
	"github.com/dtnitsch/essay-obscurity/pkg/mapreduce"
	"github.com/dtnitsch/essay-obscurity/pkg/report"
	"github.com/urfave/cli/v2"
)

// Stats summarises one corpus.
type Stats struct {
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	Source      string         `json:"source" yaml:"source"`
	WordCount   int            `json:"word_count" yaml:"word_count"`
	TotalWeight float64        `json:"total_weight" yaml:"total_weight"`
	Top         []corpus.Entry `json:"top,omitempty" yaml:"top,omitempty"`
}

// ImportAction loads a CSV corpus into the SQLite store.
func ImportAction(c *cli.Context) error {
	csvPath := c.String("csv")
	if csvPath == "" {
		return fmt.Errorf("--csv is required")
	}
	dbPath := c.String("db")
	name := c.String("name")

	crp, err := corpus.LoadCSV(csvPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	database, err := dbpkg.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	source, err := filepath.Abs(csvPath)
	if err != nil {
		source = csvPath
	}
	if err := database.ImportCorpus(c.Context, name, source, crp); err != nil {
		return fmt.Errorf("failed to import corpus: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported corpus %q: %d words, total weight %.0f -> %s\n", name, crp.Len(), crp.Total(), database.Path())
	return nil
}

// StatsAction prints the size and heaviest words of a corpus, or lists the
// corpora in a SQLite store when only --db is given.
func StatsAction(c *cli.Context) error {
	format, err := report.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	if dbPath := c.String("db"); dbPath != "" && !c.IsSet("corpus-name") {
		return listCorpora(c, dbPath, format)
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if dbPath := c.String("db"); dbPath != "" {
		cfg.Corpus.Source = dbPath
	}

	crp, err := common.LoadCorpus(c.Context, cfg.Corpus)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	stats := Stats{
		Source:      cfg.Corpus.Source,
		WordCount:   crp.Len(),
		TotalWeight: crp.Total(),
		Top:         crp.Top(c.Int("top")),
	}
	if cfg.Corpus.IsSQLiteSource() {
		stats.Name = cfg.Corpus.Name
	}

	if format != report.FormatText {
		return report.Encode(os.Stdout, stats, format)
	}
	fmt.Printf("Corpus: %s\n", stats.Source)
	fmt.Printf("Words: %d\n", stats.WordCount)
	fmt.Printf("Total weight: %.0f\n", stats.TotalWeight)
	if len(stats.Top) > 0 {
		fmt.Println("Most frequent words:")
		for i, e := range stats.Top {
			fmt.Printf("%d. %s: %.0f\n", i+1, e.Word, e.Weight)
		}
	}
	return nil
}

func listCorpora(c *cli.Context, dbPath string, format report.Format) error {
	if _, err := os.Stat(dbPath); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	database, err := dbpkg.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	infos, err := database.ListCorpora(c.Context)
	if err != nil {
		return err
	}
	if format != report.FormatText {
		return report.Encode(os.Stdout, infos, format)
	}
	if len(infos) == 0 {
		fmt.Println("No corpora imported.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWORDS\tTOTAL\tIMPORTED\tSOURCE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%s\t%s\n", info.Name, info.WordCount, info.TotalWeight, info.ImportedAt.Format("2006-01-02 15:04"), info.Source)
	}
	return w.Flush()
}

// BuildAction counts words across a set of documents and writes the counts as
// a corpus CSV, optionally importing it as well.
func BuildAction(c *cli.Context) error {
	paths := c.StringSlice("from")
	if len(paths) == 0 {
		return fmt.Errorf("--from is required")
	}
	out := c.String("out")
	if out == "" && c.String("db") == "" {
		return fmt.Errorf("one of --out or --db is required")
	}
	logger := common.NewLogger(c, "info")

	texts := make([]string, 0, len(paths))
	for _, path := range paths {
		essay, err := ingest.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		logger.Debug("document read", "path", path, "words", analytics.WordCount(essay.Text))
		texts = append(texts, essay.Text)
	}

	counts, err := mapreduce.Count(c.Context, texts, c.Int("workers"))
	if err != nil {
		return fmt.Errorf("failed to count words: %w", err)
	}
	crp, err := corpus.FromCounts(counts)
	if err != nil {
		return fmt.Errorf("failed to build corpus: %w", err)
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := corpus.WriteCSV(f, crp); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
	}

	if dbPath := c.String("db"); dbPath != "" {
		database, err := dbpkg.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		if err := database.ImportCorpus(c.Context, c.String("name"), "built from documents", crp); err != nil {
			return fmt.Errorf("failed to import corpus: %w", err)
		}
	}

	logger.Info("corpus built", "documents", len(paths), "words", crp.Len(), "total", crp.Total())
	return nil
}
