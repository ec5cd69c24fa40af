package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/gbooks/pkg/history"
	"github.com/rubiojr/gbooks/pkg/library"
)

// HistoryCommand creates the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent searches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of searches to show, 0 for all",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withHistory(ctx, c, func(store *history.Store) error {
				entries, err := store.List(ctx, int(c.Int("limit")))
				if err != nil {
					return fmt.Errorf("listing history: %w", err)
				}
				return printHistory(c.Root().Writer, entries)
			})
		},
		Commands: []*cli.Command{
			historyShowCommand(),
		},
	}
}

func historyShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one search and print the file it wrote",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Print results as a table",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return usageErrorf("history show takes exactly one search id")
			}
			return withHistory(ctx, c, func(store *history.Store) error {
				entry, err := store.Get(ctx, c.Args().First())
				if err != nil {
					return err
				}

				w := c.Root().Writer
				if err := printEntry(w, entry); err != nil {
					return err
				}
				records, err := library.Read(entry.OutputPath)
				if err != nil {
					return err
				}
				return printRecords(w, records, c.Bool("pretty"))
			})
		},
	}
}

// withHistory opens the configured history store for fn.
func withHistory(ctx context.Context, c *cli.Command, fn func(*history.Store) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if !cfg.HistoryEnabled() {
		_, err := fmt.Fprintln(c.Root().Writer, "History is disabled in the configuration")
		return err
	}

	store := openHistory(ctx, cfg)
	if store == nil {
		return fmt.Errorf("opening history at %s", cfg.HistoryPath())
	}
	defer closeHistory(store)
	return fn(store)
}
