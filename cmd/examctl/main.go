package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mocktest-engine/internal/cli"
	"mocktest-engine/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
