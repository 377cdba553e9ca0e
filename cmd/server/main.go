package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/nfrund/mqbind/internal/app"
	"github.com/nfrund/mqbind/internal/config"
	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/publisher"
	"github.com/nfrund/mqbind/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// slog is not configured yet.
		log.Fatalf("Failed to load configuration: %v", err)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := app.New(cfg)
	logger := do.MustInvoke[*slog.Logger](injector)

	// The topology must exist before the service publishes or consumes anything.
	topo, err := app.Bootstrap(ctx, injector)
	if err != nil {
		logger.Error("Failed to declare broker topology", "error", err)
		app.Shutdown(context.Background(), injector)
		return 1
	}
	logger.Info("Broker topology ready",
		"service", topo.Service,
		"exchanges", topo.ExchangeNames(),
		"queues", topo.QueueNames())

	s := server.New(server.Dependencies{
		Catalog:   do.MustInvoke[*events.Catalog](injector),
		Identity:  do.MustInvoke[events.ServiceIdentity](injector),
		Publisher: do.MustInvoke[*publisher.Publisher](injector),
		Logger:    logger,
	})

	exitCode := 0
	if err := s.Start(ctx, cfg.HTTPAddr); err != nil {
		logger.Error("Admin server failed", "error", err)
		exitCode = 1
	}

	app.Shutdown(context.Background(), injector)
	return exitCode
}
