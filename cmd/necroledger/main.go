package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akaNaymin/necrobot/internal/cli"
)

func main() {
	// Cancel in-flight store operations on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
