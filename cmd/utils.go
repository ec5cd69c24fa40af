package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/gbooks/pkg/config"
	"github.com/rubiojr/gbooks/pkg/googlebooks"
	"github.com/rubiojr/gbooks/pkg/history"
	"github.com/rubiojr/gbooks/pkg/log"
)

const promptText = "Enter the search string to search for in Google books: "

func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newClient builds the volumes client. maxResults overrides the config when
// positive.
func newClient(cfg *config.Config, maxResults int) *googlebooks.Client {
	if maxResults <= 0 {
		maxResults = cfg.API.MaxResults
	}
	return googlebooks.NewClient(googlebooks.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout.Duration,
		UserAgent:  cfg.API.UserAgent,
		APIKey:     cfg.API.APIKey,
		MaxResults: maxResults,
	})
}

// openHistory opens the history store when enabled. A store that cannot be
// opened is logged and skipped.
func openHistory(ctx context.Context, cfg *config.Config) *history.Store {
	if !cfg.HistoryEnabled() {
		return nil
	}
	store, err := history.Open(ctx, cfg.HistoryPath())
	if err != nil {
		log.ForService("history").Warnf("History disabled: %v", err)
		return nil
	}
	return store
}

func closeHistory(store *history.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.ForService("history").Warnf("Failed to close history: %v", err)
	}
}

// stdinPrompt asks for a query on w and reads one line from r.
func stdinPrompt(r io.Reader, w io.Writer) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_, _ = fmt.Fprint(w, promptText)

		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
