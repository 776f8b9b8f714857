// pantry keeps a kitchen inventory, recipe book and shopping list in sync
// with a hosted backend, working from a local cache when offline.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/logecui/pantry/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.NewRoot().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
