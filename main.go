package main

import (
	"context"
	"os"

	"github.com/rubiojr/gbooks/cmd"
	"github.com/rubiojr/gbooks/pkg/log"
)

func main() {
	if err := cmd.Run(context.Background(), cmd.App(), os.Args); err != nil {
		log.ForService("gbooks").Errorf("%v", err)
		os.Exit(cmd.ExitCode(err))
	}
}
