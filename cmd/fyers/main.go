// Command fyers is a command line client for the Fyers trading API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyers-trader/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
