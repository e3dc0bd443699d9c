// Command taskctl runs operator tasks against the task manager database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(connectDatabase).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
