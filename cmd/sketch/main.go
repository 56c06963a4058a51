// Command sketch generates project configuration files from composable
// presets.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/sketch/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
