package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/gbooks/pkg/googlebooks"
	"github.com/rubiojr/gbooks/pkg/library"
)

// Process exit statuses.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitUsage         = 2
	ExitRequestFailed = 3
	ExitFileNotFound  = 4
	ExitDecodeError   = 5
)

// UsageError marks bad command line input.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the root command to a process status.
func ExitCode(err error) int {
	var usageErr *UsageError
	var decodeErr *library.DecodeError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usageErr):
		return ExitUsage
	case errors.Is(err, googlebooks.ErrRemoteRequestFailed):
		return ExitRequestFailed
	case errors.Is(err, library.ErrNotFound):
		return ExitFileNotFound
	case errors.As(err, &decodeErr):
		return ExitDecodeError
	default:
		return ExitFailure
	}
}

// onUsageError reports flag parsing failures with the command help and tags
// them for ExitCode.
func onUsageError(_ context.Context, c *cli.Command, err error, _ bool) error {
	_, _ = fmt.Fprintf(c.Root().ErrWriter, "Incorrect usage: %v\n\n", err)
	_ = cli.ShowSubcommandHelp(c)
	return &UsageError{Err: err}
}
