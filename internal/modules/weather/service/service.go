package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"meteochart/internal/modules/weather/repository"
	"meteochart/internal/modules/weather/types"
)

// ErrNoData is returned when neither the store nor a fresh load has any days.
var ErrNoData = errors.New("no weather data available")

// DatasetLoader loads the full merged dataset.
type DatasetLoader interface {
	Load(ctx context.Context) ([]types.Day, error)
}

// RefreshStatus describes the latest dataset refresh.
type RefreshStatus struct {
	At    time.Time `json:"at"`
	Days  int       `json:"days"`
	Error string    `json:"error,omitempty"`
}

type Service struct {
	repository repository.WeatherRepository
	loader     DatasetLoader
	logger     *slog.Logger

	refreshMu sync.Mutex
	statusMu  sync.RWMutex
	status    RefreshStatus
}

func NewService(repository repository.WeatherRepository, loader DatasetLoader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, loader: loader, logger: logger}
}

// Refresh reloads the dataset and stores it. A failed load leaves the stored
// days untouched. Concurrent calls are serialised.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	days, err := s.loader.Load(ctx)
	if err == nil {
		err = s.repository.UpsertDays(ctx, days)
	}
	if err != nil {
		err = fmt.Errorf("refresh dataset: %w", err)
		s.setStatus(RefreshStatus{At: time.Now().UTC(), Error: err.Error()})
		s.logger.Error("dataset refresh failed", "error", err)
		return 0, err
	}

	s.setStatus(RefreshStatus{At: time.Now().UTC(), Days: len(days)})
	s.logger.Info("dataset refreshed", "days", len(days))
	return len(days), nil
}

// Days returns stored days in [from, to]; zero bounds are open. An empty
// store is reported as ErrNoData.
func (s *Service) Days(ctx context.Context, from, to time.Time) ([]types.Day, error) {
	n, err := s.repository.CountDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("count days: %w", err)
	}
	if n == 0 {
		return nil, ErrNoData
	}
	days, err := s.repository.GetDays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get days: %w", err)
	}
	return days, nil
}

// LatestDay is the newest stored day.
func (s *Service) LatestDay(ctx context.Context) (types.Day, error) {
	d, err := s.repository.LatestDay(ctx)
	if errors.Is(err, repository.ErrNoDays) {
		return types.Day{}, ErrNoData
	}
	return d, err
}

func (s *Service) Status() RefreshStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *Service) setStatus(st RefreshStatus) {
	s.statusMu.Lock()
	s.status = st
	s.statusMu.Unlock()
}
