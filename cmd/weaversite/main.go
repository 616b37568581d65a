// Package main is the weaversite command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/weaver-tableqa/weaversite/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
