package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"meteochart/internal/modules/weather/types"
)

const (
	HumidityFile      = "humidity-daily.csv"
	WeatherFile       = "weather-day.csv"
	WindFile          = "wind-daily.csv"
	WindDirectionFile = "wind-direction-daily.csv"
)

// Loader fetches the four daily sources and merges them into one record per
// day.
type Loader struct {
	source Source
	logger *slog.Logger
}

func NewLoader(source Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Load is all-or-nothing: if any source fails to fetch or parse, the others
// are cancelled and no days are returned.
func (l *Loader) Load(ctx context.Context) ([]types.Day, error) {
	start := time.Now()
	raw, err := l.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	days, err := Merge(raw)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	l.logger.Info("dataset loaded",
		"days", len(days),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return days, nil
}

func (l *Loader) fetchAll(ctx context.Context) (Raw, error) {
	var raw Raw
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := fetchParsed(ctx, l.source, HumidityFile, parseHumidityDaily)
		raw.Humidity = rows
		return err
	})
	g.Go(func() error {
		rows, err := fetchParsed(ctx, l.source, WeatherFile, parseWeatherDaily)
		raw.Weather = rows
		return err
	})
	g.Go(func() error {
		rows, err := fetchParsed(ctx, l.source, WindFile, parseWindDaily)
		raw.WindDaily = rows
		return err
	})
	g.Go(func() error {
		rows, err := fetchParsed(ctx, l.source, WindDirectionFile, parseWindDirectionDaily)
		raw.WindDirection = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return Raw{}, err
	}
	return raw, nil
}

func fetchParsed[T any](ctx context.Context, src Source, name string, parse func(string) ([]T, error)) ([]T, error) {
	b, err := src.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return rows, nil
}
