package main

import (
	"fmt"

	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the completion sweeper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version|reset|redo] [args...]",
		Short: "Apply or inspect database schema migrations",
		Long: `Runs goose against the embedded PostgreSQL migrations. The sqlite
driver supports only "up", which brings the schema in line with the models.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command, args = args[0], args[1:]
			}

			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}

			switch cfg.Database.Driver {
			case driverPostgres:
				db, err := openPostgres(cmd.Context(), cfg.Database, log)
				if err != nil {
					return err
				}
				defer func() {
					_ = db.Close()
				}()
				return postgres.Migrate(cmd.Context(), db, command, log, args...)

			case driverSQLite:
				if command != "up" {
					return fmt.Errorf("migrate %q is not supported by the sqlite driver", command)
				}
				db, err := sqlite.Open(cfg.Database.URL)
				if err != nil {
					return err
				}
				log.Info("sqlite schema is up to date")
				return sqlite.Close(db)

			default:
				return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
			}
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single completion sweep and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()

			result, err := app.sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "due=%d completed=%d stale=%d failed=%d skipped=%t\n",
				result.Due, result.Completed, result.Stale, result.Failed, result.Skipped)
			return err
		},
	}
}
