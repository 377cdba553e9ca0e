// Package server exposes the service's admin HTTP surface: health, the event
// catalog, the planned topology and a publish endpoint.
package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/mqbind/internal/events"
	"github.com/nfrund/mqbind/internal/middleware"
	"github.com/nfrund/mqbind/internal/publisher"
)

// Dependencies holds the services the HTTP handlers need.
type Dependencies struct {
	Catalog   *events.Catalog
	Identity  events.ServiceIdentity
	Publisher *publisher.Publisher
	Logger    *slog.Logger
	// PublishRate limits POST /events per client and second. Zero uses
	// middleware.DefaultPublishRate.
	PublishRate int
}

// Server holds the echo instance and the handler dependencies.
type Server struct {
	E         *echo.Echo
	catalog   *events.Catalog
	identity  events.ServiceIdentity
	publisher *publisher.Publisher
	logger    *slog.Logger
}

// New creates a server with all routes registered.
func New(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.Recover())
	setupErrorHandling(e)

	s := &Server{
		E:         e,
		catalog:   deps.Catalog,
		identity:  deps.Identity,
		publisher: deps.Publisher,
		logger:    logger,
	}

	rate := deps.PublishRate
	if rate <= 0 {
		rate = middleware.DefaultPublishRate
	}
	s.registerRoutes(middleware.RateLimiter(rate))

	return s
}
