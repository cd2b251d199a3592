package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/crudapi/pkg/api"
	"github.com/openfroyo/crudapi/pkg/config"
	"github.com/openfroyo/crudapi/pkg/telemetry"
)

func newServeCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		skipMigrate     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Open the store, apply pending migrations and serve the /api routes.

The server stops gracefully on SIGINT or SIGTERM. When --config points at a
telemetry file, edits to its logging.level take effect without a restart.`,
		Example: `  # Serve against a local SQLite file
  DB_DRIVER=sqlite DB_PATH=./crudapi.db crudapi serve

  # Serve against PostgreSQL with a telemetry file
  DB_HOST=db DB_PASSWORD=secret crudapi serve --config telemetry.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), shutdownTimeout, skipMigrate)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply migrations on start")

	return cmd
}

func runServe(ctx context.Context, shutdownTimeout time.Duration, skipMigrate bool) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !skipMigrate {
		if err := a.store.Migrate(ctx); err != nil {
			return err
		}
	}

	watching := config.WatchTelemetry(a.viper, func(cfg *telemetry.Config, err error) {
		if err != nil {
			a.logger.WithError(err).Warn("ignoring invalid telemetry config")
			return
		}
		telemetry.SetLevel(cfg.Logging.Level)
		a.logger.Infof("log level set to %s", cfg.Logging.Level)
	})
	if watching {
		a.logger.Infof("watching %s for changes", configPath)
	}

	server := api.NewServer(a.store, a.tel, api.Options{
		AllowedOrigins: a.cfg.HTTP.AllowedOrigins(),
	})

	httpServer := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		a.logger.WithFields(map[string]interface{}{
			"addr":   a.cfg.HTTP.Addr,
			"driver": a.cfg.Database.Driver,
		}).Info("serving")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
