package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meteochart/internal/modules/weather/types"
)

//go:embed sql/upsert-day.sql
var upsertDaySQL string

//go:embed sql/get-days.sql
var getDaysSQL string

//go:embed sql/get-latest-day.sql
var getLatestDaySQL string

//go:embed sql/count-days.sql
var countDaysSQL string

// ErrNoDays is returned by LatestDay on an empty table.
var ErrNoDays = errors.New("no days stored")

const (
	SourceCSV  = "csv"
	SourceMQTT = "mqtt"
)

// Open bounds used when GetDays is called with zero times.
const (
	minDay = "0000-01-01"
	maxDay = "9999-12-31"
)

type WeatherRepository interface {
	UpsertDays(ctx context.Context, days []types.Day) error
	UpsertObservation(ctx context.Context, day types.Day, stationID string) error
	GetDays(ctx context.Context, from, to time.Time) ([]types.Day, error)
	CountDays(ctx context.Context) (int, error)
	LatestDay(ctx context.Context) (types.Day, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) WeatherRepository {
	return &repositoryImpl{db: db}
}

// UpsertDays writes a whole dataset in one transaction; either every day is
// stored or none is.
func (r *repositoryImpl) UpsertDays(ctx context.Context, days []types.Day) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertDaySQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("close upsert stmt", "error", err)
		}
	}()

	for _, d := range days {
		if _, err := stmt.ExecContext(ctx, upsertArgs(d, SourceCSV, nil)...); err != nil {
			return fmt.Errorf("upsert %s: %w", d.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repositoryImpl) UpsertObservation(ctx context.Context, day types.Day, stationID string) error {
	var station *string
	if stationID != "" {
		station = &stationID
	}
	if _, err := r.db.ExecContext(ctx, upsertDaySQL, upsertArgs(day, SourceMQTT, station)...); err != nil {
		return fmt.Errorf("upsert observation %s: %w", day.Key(), err)
	}
	return nil
}

// GetDays returns the stored days in [from, to] by calendar date, oldest
// first. A zero bound is open.
func (r *repositoryImpl) GetDays(ctx context.Context, from, to time.Time) ([]types.Day, error) {
	fromStr, toStr := minDay, maxDay
	if !from.IsZero() {
		fromStr = from.Format(types.DateLayout)
	}
	if !to.IsZero() {
		toStr = to.Format(types.DateLayout)
	}

	rows, err := r.db.QueryContext(ctx, getDaysSQL, fromStr, toStr)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close days rows", "error", err)
		}
	}()

	var out []types.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) CountDays(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countDaysSQL).Scan(&n)
	return n, err
}

func (r *repositoryImpl) LatestDay(ctx context.Context) (types.Day, error) {
	d, err := scanDay(r.db.QueryRowContext(ctx, getLatestDaySQL))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Day{}, ErrNoDays
	}
	return d, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(s scanner) (types.Day, error) {
	var (
		d   types.Day
		key string
	)
	err := s.Scan(
		&key,
		&d.Temperature.Min, &d.Temperature.Max, &d.Temperature.Mean,
		&d.Humidity.Min, &d.Humidity.Max, &d.Humidity.Mean,
		&d.WindRange.Min, &d.WindRange.Max, &d.WindRange.Mean,
		&d.WindGust, &d.WindDirection, &d.Precipitation, &d.DaylightHours,
	)
	if err != nil {
		return types.Day{}, err
	}
	d.Date, err = time.Parse(types.DateLayout, key)
	if err != nil {
		return types.Day{}, fmt.Errorf("parse day %q: %w", key, err)
	}
	return d, nil
}

func upsertArgs(d types.Day, source string, stationID *string) []any {
	return []any{
		d.Key(),
		d.Temperature.Min, d.Temperature.Max, d.Temperature.Mean,
		d.Humidity.Min, d.Humidity.Max, d.Humidity.Mean,
		d.WindRange.Min, d.WindRange.Max, d.WindRange.Mean,
		d.WindGust, d.WindDirection, d.Precipitation, d.DaylightHours,
		source, stationID,
	}
}
