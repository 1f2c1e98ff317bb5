package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"alterego/internal/logging"
	"alterego/internal/notify"
	"alterego/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

// serveCmd runs the web chat surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web chat widget and JSON API",
	Long: `Starts the HTTP server:
  GET  /             chat widget
  GET  /api/health   liveness
  POST /api/chat     {message, history} -> {reply}
  POST /api/contact  {email, name, notes} -> push notification
  POST /api/unknown  {question} -> push notification

Stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, p, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(orch, notify.NewRecorder(notify.FromConfig(cfg.Notify)), server.Options{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
		Name:            p.Name,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Boot("Shutdown requested")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logging.BootError("Server stopped: %v", err)
		return err
	}
	return nil
}
