package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// registerRoutes sets up all the admin routes.
func (s *Server) registerRoutes(rateLimiter echo.MiddlewareFunc) {
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	s.E.GET("/catalog", s.catalogGet)
	s.E.GET("/topology", s.topologyGet)
	s.E.POST("/events/:name", s.eventPost, rateLimiter)
}
