package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/gbooks/pkg/book"
	"github.com/rubiojr/gbooks/pkg/search"
)

// SearchFlags are the root command flags used by SearchAction.
func SearchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "search",
			Usage: "Search string, prompted for when omitted",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"read", "write"},
			Usage:   "CSV file to write and read back (default: config output, output.csv)",
		},
		&cli.StringFlag{
			Name:  "sortby",
			Usage: "Sort by field: Published Date, Page Count, Price, Rating Count or Average Rating",
		},
		&cli.BoolFlag{
			Name:  "htol",
			Usage: "Sort from high to low (--htol, --htol=true or --htol true)",
		},
		&cli.BoolFlag{
			Name:  "loadCSV",
			Usage: "Print the CSV file after writing it (--loadCSV false to skip)",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "price-order",
			Usage: "Price ordering: amount or lexical (default: config sort.price_order)",
		},
		&cli.IntFlag{
			Name:  "max-results",
			Usage: "Results to request, 1 to 40 (default: config api.max_results)",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Print results as a table",
		},
	}
}

// SearchAction searches, writes the CSV file and prints it back.
func SearchAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Present() {
		return usageErrorf("unexpected argument %q", c.Args().First())
	}

	var sortField book.SortField
	if c.String("sortby") != "" {
		f, err := book.ParseSortField(c.String("sortby"))
		if err != nil {
			return &UsageError{Err: err}
		}
		sortField = f
	}

	maxResults := c.Int("max-results")
	if maxResults < 0 || maxResults > 40 {
		return usageErrorf("--max-results must be between 1 and 40, got %d", maxResults)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	priceOrder := cfg.PriceOrder()
	if c.IsSet("price-order") {
		if priceOrder, err = book.ParsePriceOrder(c.String("price-order")); err != nil {
			return &UsageError{Err: err}
		}
	}

	outputPath := cfg.Output
	if c.IsSet("file") {
		outputPath = c.String("file")
	}

	store := openHistory(ctx, cfg)
	defer closeHistory(store)

	var recorder search.Recorder
	if store != nil {
		recorder = store
	}

	w := c.Root().Writer
	service := search.NewService(newClient(cfg, int(maxResults)), recorder, search.Config{
		OutputPath: outputPath,
		PriceOrder: priceOrder,
	})

	req := search.Request{
		Query:      c.String("search"),
		Sort:       sortField,
		Descending: c.Bool("htol"),
		Reload:     c.Bool("loadCSV"),
	}
	if !c.IsSet("search") {
		req.Prompt = stdinPrompt(c.Root().Reader, w)
	}

	result, err := service.Run(ctx, req)
	if err != nil {
		return err
	}

	if !req.Reload {
		if result.Empty() {
			_, err = fmt.Fprintln(w, noResults)
		}
		return err
	}
	return printRecords(w, result.Loaded, c.Bool("pretty"))
}
