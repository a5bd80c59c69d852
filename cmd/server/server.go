package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/phrazzld/tasks-api/internal/redact"
	"golang.org/x/sync/errgroup"
)

// serve runs the HTTP server and, when enabled, the sweeper until a
// termination signal arrives or the server fails.
func (app *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if app.config.Scheduler.Enabled {
		app.sweeper.Start()
		g.Go(func() error {
			for err := range app.sweeper.Errors() {
				app.logger.Warn("sweeper reported a failure", slog.String("error", redact.Error(err)))
			}
			return nil
		})
	}

	timeout := app.config.Server.ShutdownTimeout
	wait := gfshutdown.GracefulShutdown(context.Background(), timeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
		"sweeper": func(ctx context.Context) error {
			app.sweeper.Stop()
			return nil
		},
	})

	var shutdownErr error
	select {
	case code := <-wait:
		if code != 0 {
			shutdownErr = fmt.Errorf("graceful shutdown finished with exit code %d", code)
		}
	case <-gctx.Done():
		// The server stopped without a signal; tear down the rest.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		app.sweeper.Stop()
	}

	if err := g.Wait(); err != nil {
		return errors.Join(err, shutdownErr)
	}

	app.logger.Info("server shutdown completed")
	return shutdownErr
}
