package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/clock"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/redislock"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	userStore store.UserStore
	taskStore store.TaskStore

	userService service.UserService
	taskService service.TaskService

	sweeper *task.Sweeper

	// closers run in reverse order during cleanup
	closers []func() error
}

// newApplication opens the configured backend and wires stores, services
// and the sweeper.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.openStores(ctx); err != nil {
		return nil, err
	}

	app.userService = service.NewUserService(app.userStore, logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	locker, err := app.setupLocker(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.sweeper = task.NewSweeper(
		app.taskStore,
		clock.System{},
		locker,
		task.SweeperConfig{Interval: cfg.Scheduler.Interval},
		logger,
	)

	return app, nil
}

// setupLocker returns nil when no Redis URL is configured, leaving sweeps
// uncoordinated across processes.
func (app *application) setupLocker(ctx context.Context) (task.Locker, error) {
	if app.config.Redis.URL == "" {
		return nil, nil
	}

	client, err := redislock.NewClient(ctx, app.config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.closers = append(app.closers, client.Close)

	app.logger.Info("sweep lock enabled", slog.Duration("ttl", app.config.Scheduler.LockTTL))
	return redislock.NewLocker(client, redislock.DefaultKey, app.config.Scheduler.LockTTL, app.logger), nil
}

// cleanup releases every resource opened by newApplication.
func (app *application) cleanup() {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil

	if err := errors.Join(errs...); err != nil {
		app.logger.Error("cleanup failed", slog.String("error", err.Error()))
	}
}
