// Package main provides the entry point for the stackignore CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Aman-CERP/stackignore/cmd/stackignore/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
