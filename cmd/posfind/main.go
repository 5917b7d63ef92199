// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/posfind"
	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/ingestion"
	"github.com/poiesic/posfind/search"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory (overrides config)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "posfind",
		Usage: "Point-of-sale product catalog search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{"POSFIND_CONFIG"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import a JSON catalog document",
				Action: importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Catalog file to import (- for stdin)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent batch writers (overrides config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products written per transaction (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N products",
						Value: 100,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "query...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.Uint64Flag{
						Name:  "category",
						Usage: "Restrict results to this category ID",
					},
					&cli.BoolFlag{
						Name:  "no-subcategories",
						Usage: "Do not include subcategories of --category",
					},
					&cli.BoolFlag{
						Name:  "available",
						Usage: "Only return products available for sale",
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results, 0 for unlimited (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "missing-phrase-last",
						Usage: "Rank word-by-word matches after whole-phrase matches (overrides config)",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "BCP 47 tag used to break ranking ties (overrides config)",
					},
				},
			},
			{
				Name:   "categories",
				Usage:  "Print the category tree",
				Action: categoriesCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "seed",
				Usage:  "Write a small demo catalog",
				Action: seedCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
		},
	}
}

// setup loads the configuration and installs the logger.
func setup(c *cli.Context) error {
	cfg, err := posfind.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if err := setupLogger(c.App.ErrWriter, cfg.Log.Level); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func setupLogger(w io.Writer, levelStr string) error {
	level, err := posfind.ParseLogLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}
	if w == nil {
		w = os.Stderr
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openDatabase(c *cli.Context) (*posfind.Database, error) {
	cfg, ok := c.App.Metadata[configKey].(*posfind.Config)
	if !ok {
		cfg = posfind.DefaultConfig()
	}
	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}

	db, err := posfind.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetLogger(slog.Default())
	return db, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.IsSet("pool-size") && c.Int("pool-size") <= 0 {
		return fmt.Errorf("pool-size must be greater than 0")
	}
	if c.IsSet("batch-size") && c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	var in io.Reader
	file := c.String("file")
	if file == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer f.Close()
		in = f
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if c.IsSet("pool-size") {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}
	if c.IsSet("batch-size") {
		opts = append(opts, ingestion.WithBatchSize(c.Int("batch-size")))
	}
	if c.Bool("progress") {
		opts = append(opts, ingestion.WithProgress(c.App.ErrWriter, c.Int("report-interval")))
	}

	importer, err := db.NewImporter(opts...)
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}
	defer importer.Release()

	report, err := importer.Import(ctx, in)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d categories, %d products (%d skipped)\n",
		report.Categories, report.Products, report.Skipped)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []search.Option
	var matcherOpts []search.MatcherOption
	if c.Bool("missing-phrase-last") {
		matcherOpts = append(matcherOpts, search.WithMissingPhraseLast())
	}
	if c.IsSet("language") {
		tag, err := search.ParseLanguage(c.String("language"))
		if err != nil {
			return err
		}
		matcherOpts = append(matcherOpts, search.WithLanguage(tag))
	}
	if len(matcherOpts) > 0 {
		opts = append(opts, search.WithMatcherOptions(matcherOpts...))
	}

	searcher, err := db.NewSearcher(opts...)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	searchOpts := db.SearchOptions()
	searchOpts.CategoryID = core.ID(c.Uint64("category"))
	searchOpts.ExcludeSubcategories = c.Bool("no-subcategories")
	searchOpts.OnlyAvailable = c.Bool("available")
	if c.IsSet("max-hits") {
		if c.Int("max-hits") < 0 {
			return fmt.Errorf("max-hits must not be negative")
		}
		searchOpts.MaxHits = c.Int("max-hits")
	}

	query := strings.Join(c.Args().Slice(), " ")
	results, err := searcher.Search(ctx, query, searchOpts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Found %d hits\n", len(results))
	for i, p := range results {
		fmt.Fprintf(w, "%d: '%s' (%d)", i, p.Name, p.Id)
		if p.DefaultCode != "" {
			fmt.Fprintf(w, " [%s]", p.DefaultCode)
		}
		if p.Barcode != "" {
			fmt.Fprintf(w, " barcode=%s", p.Barcode)
		}
		if !p.Available {
			fmt.Fprint(w, " (unavailable)")
		}
		fmt.Fprintln(w)
	}
	return nil
}

func categoriesCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return printCategories(ctx, c.App.Writer, db, 0, 0, map[core.ID]bool{})
}

// printCategories writes the children of parentID indented by depth.
func printCategories(ctx context.Context, w io.Writer, db *posfind.Database, parentID core.ID, depth int, seen map[core.ID]bool) error {
	children, err := db.CategoryRepository().GetChildCategories(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	for _, category := range children {
		if seen[category.Id] {
			continue
		}
		seen[category.Id] = true

		products, err := db.ProductRepository().ListProductsByCategory(ctx, category.Id)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		fmt.Fprintf(w, "%s%s (%d) - %d products\n", strings.Repeat("  ", depth), category.Name, category.Id, len(products))
		if err := printCategories(ctx, w, db, category.Id, depth+1, seen); err != nil {
			return err
		}
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := db.NewImporter()
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}
	defer importer.Release()

	report, err := importer.ImportCatalog(ctx, demoCatalog())
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Seeded %d categories, %d products\n", report.Categories, report.Products)
	return nil
}
