package controller

import (
	"context"
	"net/http"
	"time"

	"meteochart/internal/modules/weather/service"
	"meteochart/internal/modules/weather/types"
	"meteochart/internal/modules/weather/views"
)

// WeatherService is the part of service.Service the handlers use.
type WeatherService interface {
	Days(ctx context.Context, from, to time.Time) ([]types.Day, error)
	Refresh(ctx context.Context) (int, error)
	Status() service.RefreshStatus
}

type WeatherController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type weatherControllerImpl struct {
	service WeatherService
	chart   views.ChartOptions
}

// NewWeatherController builds the controller; chart holds the default image
// size used when a request does not ask for a width.
func NewWeatherController(service WeatherService, chart views.ChartOptions) WeatherController {
	return &weatherControllerImpl{service: service, chart: chart}
}

func (c *weatherControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handlePage)
	mux.HandleFunc("GET /toggle", c.handleToggle)
	mux.HandleFunc("GET /reset", c.handleReset)
	mux.HandleFunc("GET /chart.svg", c.handleChart)
	mux.HandleFunc("GET /partials/legend", c.handleLegendPartial)

	mux.HandleFunc("GET /api/v1/metrics", c.handleMetrics)
	mux.HandleFunc("GET /api/v1/selection", c.handleSelection)
	mux.HandleFunc("POST /api/v1/selection/toggle", c.handleToggleAPI)
	mux.HandleFunc("GET /api/v1/days", c.handleDays)
	mux.HandleFunc("POST /api/v1/refresh", c.handleRefresh)
}
