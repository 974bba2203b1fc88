// Package server runs one service's http.Server until its context ends,
// then shuts it down gracefully.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/resource-api/internal/config"
)

// New builds the http.Server for one listener. Timeouts come from config
// so slow clients cannot hold connections open forever.
func New(cfg config.HTTPServer, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Run serves srv in a separate goroutine and blocks until ctx is done
// (normally a SIGINT/SIGTERM) or the listener fails. On ctx.Done it stops
// accepting connections and waits up to cfg.ShutdownTimeout for in-flight
// requests.
func Run(ctx context.Context, log *slog.Logger, srv *http.Server, cfg config.HTTPServer) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", srv.Addr))

		// ListenAndServe returns http.ErrServerClosed after Shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
