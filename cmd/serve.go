package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/songrec/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP service until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	orchestrator, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	srv := server.NewServer(orchestrator, server.Options{
		Addr:            cfg.Addr(),
		AllowedOrigins:  cfg.AllowedOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Metrics:         r.metrics,
		Logger:          r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting server", "addr", cfg.Addr(), "model", r.config.Model.Name)
	return srv.ListenAndServe(ctx)
}
