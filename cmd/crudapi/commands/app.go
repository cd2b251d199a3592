package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/openfroyo/crudapi/pkg/config"
	"github.com/openfroyo/crudapi/pkg/stores"
	"github.com/openfroyo/crudapi/pkg/telemetry"
)

// app bundles what every store-backed command needs.
type app struct {
	cfg    *config.Config
	viper  *viper.Viper
	tel    *telemetry.Telemetry
	logger *telemetry.Logger
	store  *stores.SQLStore
}

// loadConfig reads the environment and the optional telemetry file.
func loadConfig() (*config.Config, *telemetry.Config, *viper.Viper, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	telCfg, v, err := config.LoadTelemetry(configPath, environment)
	if err != nil {
		return nil, nil, nil, err
	}
	if serviceVersion != "" {
		telCfg.ServiceVersion = serviceVersion
	}
	if verbose {
		telCfg.Logging.Level = "debug"
	}
	return cfg, telCfg, v, nil
}

// openApp loads configuration, builds telemetry and opens the store.
func openApp(ctx context.Context) (*app, error) {
	cfg, telCfg, v, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.NewTelemetry(telCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &app{
		cfg:    cfg,
		viper:  v,
		tel:    tel,
		logger: tel.Logger.NewComponentLogger("cli"),
	}

	storeCfg, err := cfg.Database.StoreConfig()
	if err != nil {
		a.close()
		return nil, err
	}
	store, err := stores.NewSQLStore(storeCfg)
	if err != nil {
		a.close()
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		a.close()
		return nil, err
	}
	a.store = store

	a.logger.WithField("driver", string(store.Dialect())).Debug("store opened")
	return a, nil
}

// close releases the store and flushes telemetry.
func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close store")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tel.Shutdown(ctx); err != nil {
		a.logger.WithError(err).Warn("failed to flush telemetry")
	}
}
