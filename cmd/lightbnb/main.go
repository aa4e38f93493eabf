// Command lightbnb queries the LightBnB database from the command line.
//
// Configuration comes from LIGHTBNB_* environment variables (or a .env
// file); results are printed to stdout as JSON.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
