package weather

import (
	"database/sql"
	"log/slog"
	"net/http"

	"meteochart/internal/config"
	"meteochart/internal/modules/weather/controller"
	"meteochart/internal/modules/weather/dataset"
	"meteochart/internal/modules/weather/repository"
	"meteochart/internal/modules/weather/service"
	"meteochart/internal/modules/weather/views"
	"meteochart/internal/mqtt"
)

// NewSource picks the dataset transport: HTTP when DATA_BASE_URL is set,
// the data directory otherwise.
func NewSource(cfg config.Config) dataset.Source {
	if cfg.DataBaseURL != "" {
		return dataset.NewHTTPSource(cfg.DataBaseURL, cfg.FetchTimeout, cfg.FetchRetries)
	}
	return dataset.NewDirSource(cfg.DataDir)
}

func NewService(db *sql.DB, cfg config.Config, logger *slog.Logger) *service.Service {
	weatherRepository := repository.NewRepository(db)
	loader := dataset.NewLoader(NewSource(cfg), logger)
	return service.NewService(weatherRepository, loader, logger)
}

// RegisterFeature mounts the weather routes. subscriber may be nil when MQTT
// is disabled.
func RegisterFeature(mux *http.ServeMux, weatherService *service.Service, cfg config.Config, subscriber mqtt.MessageSubscriber) {
	weatherController := controller.NewWeatherController(weatherService, views.ChartOptions{
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
	})
	weatherController.RegisterRoutes(mux)

	if subscriber != nil {
		weatherService.Register(subscriber)
	}
}
