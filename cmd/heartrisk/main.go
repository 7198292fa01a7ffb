package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bibbank/heartrisk/internal/presentation/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Streams{Stdout: os.Stdout, Stderr: os.Stderr})
	cancel()
	os.Exit(code)
}
