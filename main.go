package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	corpuscmd "github.com/dtnitsch/essay-obscurity/internal/corpus"
	"github.com/dtnitsch/essay-obscurity/internal/detect"
	"github.com/dtnitsch/essay-obscurity/internal/score"
	"github.com/dtnitsch/essay-obscurity/pkg/db"
	"github.com/dtnitsch/essay-obscurity/pkg/help"
	"github.com/urfave/cli/v2"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file (default essay-obscurity.yaml if present)"},
		&cli.StringFlag{Name: "corpus", Usage: "word frequency CSV or SQLite database"},
		&cli.StringFlag{Name: "corpus-name", Usage: "corpus name inside a SQLite database"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "output format: text, yaml or json"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output"},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "essay file (.txt, .pdf, .docx, .html); '-' or unset reads stdin"},
		&cli.StringFlag{Name: "url", Usage: "fetch the essay from a web page"},
	}
}

func detectFlags() []cli.Flag {
	flags := append(commonFlags(), inputFlags()...)
	return append(flags,
		&cli.IntFlag{Name: "samples", Aliases: []string{"n"}, Usage: "number of reference essays to generate"},
		&cli.IntFlag{Name: "workers", Usage: "concurrent generation requests"},
		&cli.StringSliceFlag{Name: "reference", Aliases: []string{"r"}, Usage: "use these files as reference essays instead of generating"},
		&cli.StringFlag{Name: "style", Usage: "skip the style judge and use this label: ai, human or unclear"},
		&cli.Float64Flag{Name: "legacy-threshold", Usage: "ratio below which the legacy rule says AI"},
		&cli.StringFlag{Name: "cache-dir", Usage: "cache generated references in this directory"},
		&cli.StringFlag{Name: "model", Usage: "chat completion model"},
	)
}

func main() {
	app := &cli.App{
		Name:   "essay-obscurity",
		Usage:  "estimate whether an essay was written by a person or a language model",
		Flags:  detectFlags(),
		Action: detect.DetectAction,
		Commands: []*cli.Command{
			{
				Name:   "detect",
				Usage:  "compare an essay with generated references and print a verdict",
				Flags:  detectFlags(),
				Action: detect.DetectAction,
			},
			{
				Name:  "score",
				Usage: "print the obscurity profile of an essay",
				Flags: append(append(commonFlags(), inputFlags()...),
					&cli.IntFlag{Name: "top", Value: 10, Usage: "number of most obscure words to list"},
				),
				Action: score.ScoreAction,
			},
			{
				Name:  "corpus",
				Usage: "manage word frequency corpora",
				Subcommands: []*cli.Command{
					{
						Name:  "import",
						Usage: "load a word,count CSV into the SQLite store",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "csv", Usage: "word,count CSV to import", Required: true},
							&cli.StringFlag{Name: "db", Value: db.DefaultDBName, Usage: "SQLite database path"},
							&cli.StringFlag{Name: "name", Value: "default", Usage: "corpus name"},
						},
						Action: corpuscmd.ImportAction,
					},
					{
						Name:  "stats",
						Usage: "show corpus size and most frequent words, or list imported corpora",
						Flags: append(commonFlags(),
							&cli.StringFlag{Name: "db", Usage: "SQLite database; lists corpora unless --corpus-name is set"},
							&cli.IntFlag{Name: "top", Value: 10, Usage: "number of most frequent words to list"},
						),
						Action: corpuscmd.StatsAction,
					},
					{
						Name:  "build",
						Usage: "count words across documents and write a corpus",
						Flags: []cli.Flag{
							&cli.StringSliceFlag{Name: "from", Usage: "document to count (repeatable)", Required: true},
							&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "CSV file to write"},
							&cli.StringFlag{Name: "db", Usage: "also import into this SQLite database"},
							&cli.StringFlag{Name: "name", Value: "default", Usage: "corpus name for --db"},
							&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent documents"},
							&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
							&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output"},
						},
						Action: corpuscmd.BuildAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "print a quick reference for common tasks",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Actions return cli.Exit errors, which urfave/cli reports and exits on.
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
