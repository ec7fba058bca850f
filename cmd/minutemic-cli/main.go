package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"minutemic/internal/cli"
	"minutemic/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &cli.Dependencies{Out: output.NewFormatter(os.Stdout)}
	if err := cli.NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		output.NewFormatter(os.Stderr).Error(err.Error())
		stop()
		os.Exit(1)
	}
}
