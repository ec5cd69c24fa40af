package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/gbooks/pkg/config"
	"github.com/rubiojr/gbooks/pkg/log"
)

// valueBoolFlags accept their value as a separate argument, as in
// `--htol true`, besides the `--htol` and `--htol=true` forms.
var valueBoolFlags = map[string]bool{
	"htol":    true,
	"loadCSV": true,
}

// App builds the gbooks root command. Without a subcommand it runs a search.
func App() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
			Value: false,
		},
		&cli.StringSliceFlag{
			Name:  "debug-for",
			Usage: "Enable debug logging for a single component (search, googlebooks, history)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Configuration file path",
			Value: defaultConfigPath(),
		},
	}

	return &cli.Command{
		Name:  "gbooks",
		Usage: "Search Google Books and save the results as CSV",
		Flags: append(flags, SearchFlags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			for _, name := range c.StringSlice("debug-for") {
				log.EnableDebugFor(name)
			}
			return ctx, nil
		},
		OnUsageError: onUsageError,
		Action:       SearchAction,
		Commands: []*cli.Command{
			ReadCommand(),
			HistoryCommand(),
			InitCommand(),
			VersionCommand(),
		},
	}
}

// Run runs app with args after joining separate boolean flag values.
func Run(ctx context.Context, app *cli.Command, args []string) error {
	return app.Run(ctx, joinBoolValues(args))
}

// joinBoolValues rewrites `--htol true` as `--htol=true` so the boolean flag
// parser does not leave the value behind as a positional argument.
func joinBoolValues(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}

		name := strings.TrimLeft(arg, "-")
		if i+1 < len(args) && strings.HasPrefix(arg, "-") && valueBoolFlags[name] {
			if _, err := strconv.ParseBool(args[i+1]); err == nil {
				out = append(out, arg+"="+args[i+1])
				i++
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}

func defaultConfigPath() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.ForService("config").Warnf("Failed to get default config path: %v", err)
		return ""
	}
	return path
}
