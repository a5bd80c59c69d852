package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// openStores connects the configured backend and builds the stores on top of it.
func (app *application) openStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case driverPostgres:
		db, err := openPostgres(ctx, app.config.Database, app.logger)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, db.Close)
		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
		app.taskStore = postgres.NewPostgresTaskStore(db, app.logger)

	case driverSQLite:
		db, err := sqlite.Open(app.config.Database.URL)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, func() error { return sqlite.Close(db) })
		app.userStore = sqlite.NewGormUserStore(db, app.logger)
		app.taskStore = sqlite.NewGormTaskStore(db, app.logger)
		app.logger.Info("sqlite database opened")

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}

	return nil
}

// openPostgres establishes a connection to the database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}
