package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"meteochart/internal/config"
	"meteochart/internal/db"
	"meteochart/internal/httpapi"
	"meteochart/internal/migrate"
	weather "meteochart/internal/modules/weather"
	weatherviews "meteochart/internal/modules/weather/views"
	"meteochart/internal/mqtt"
)

const (
	mqttConnectTimeout = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// Run serves the chart until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dataDir", cfg.DataDir,
		"dataBaseURL", cfg.DataBaseURL,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbLogSQL", cfg.LogSQL,
		"mqttEnabled", cfg.MQTT.Enabled,
		"mqttBroker", cfg.MQTT.BrokerURL(),
		"mqttTopic", cfg.MQTT.Topic,
	)

	dbConn, err := db.Open(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if _, err := migrate.Run(ctx, dbConn, slog.Default()); err != nil {
		return err
	}
	slog.Info("database ready")

	if err := weatherviews.LoadTemplates(); err != nil {
		return err
	}

	weatherService := weather.NewService(dbConn, cfg, slog.Default())
	// Stored days from an earlier run are still served when this fails.
	if _, err := weatherService.Refresh(ctx); err != nil {
		slog.Warn("initial dataset refresh failed (serving stored data)", "error", err)
	}

	sources := httpapi.HealthSources{Refresh: weatherService.Status}
	var subscriber *mqtt.Subscriber
	if cfg.MQTT.Enabled {
		subscriber = mqtt.NewSubscriber(cfg.MQTT, slog.Default())
		sources.MQTT = subscriber
	}

	mux := httpapi.NewMux(dbConn, sources)
	if subscriber != nil {
		// The handler is attached before Connect: the broker may deliver queued
		// messages right after CONNACK.
		weather.RegisterFeature(mux, weatherService, cfg, subscriber)

		connectCtx, connectCancel := context.WithTimeout(ctx, mqttConnectTimeout)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	} else {
		weather.RegisterFeature(mux, weatherService, cfg, nil)
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if subscriber != nil {
		slog.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
