package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/AlibekovAA/crudik/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// Run serves on ln until ctx is cancelled or the server fails, then drains
// connections, runs hooks in order and shuts the server down.
func Run(ctx context.Context, server *http.Server, ln net.Listener, cfg ServerConfig, log *logger.Logger, hooks []ShutdownHook) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down http server (drain period: %v)", cfg.DrainTimeout)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	server.SetKeepAlivesEnabled(false)

	var shutdownErr error
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server forced to shutdown: %v", err)
		shutdownErr = err
	} else {
		log.Infof("http server stopped gracefully")
	}

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, cfg.DrainTimeout)
	defer drainCancel()

	for i, hook := range hooks {
		if err := hook(drainCtx); err != nil {
			log.Errorf("shutdown hook %d failed: %v", i, err)
		}
	}

	return shutdownErr
}

// ListenAndRun binds cfg.Addr and calls Run.
func ListenAndRun(ctx context.Context, server *http.Server, cfg ServerConfig, log *logger.Logger, hooks []ShutdownHook) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return Run(ctx, server, ln, cfg, log, hooks)
}
