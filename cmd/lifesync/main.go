// Package main is the entry point for the lifesync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lifesync/internal/backend"
	"lifesync/internal/cli"
	"lifesync/internal/commands"
	"lifesync/internal/config"
	"lifesync/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		agg, err := service.Open(cfg, backend.NewRegistry())
		if err != nil {
			return nil, err
		}
		return agg, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
