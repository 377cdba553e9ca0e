package server

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// shutdownTimeout bounds the time in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server on addr until ctx is canceled, then shuts it down
// gracefully. It returns an error if the server cannot listen.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Admin server listening", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down admin server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.E.Shutdown(shutdownCtx)
}
