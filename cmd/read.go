package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/gbooks/pkg/library"
)

// ReadCommand creates the read command
func ReadCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Print a CSV file written by a previous search",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Print results as a table",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() > 1 {
				return usageErrorf("read takes at most one path")
			}

			path := c.Args().First()
			if path == "" {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				path = cfg.Output
			}

			records, err := library.Read(path)
			if err != nil {
				return err
			}
			return printRecords(c.Root().Writer, records, c.Bool("pretty"))
		},
	}
}
