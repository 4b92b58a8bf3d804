package service

import (
	"context"
	"fmt"

	"meteochart/internal/modules/weather/dataset"
	"meteochart/internal/modules/weather/types"
	"meteochart/internal/mqtt"
)

// ObservationPublisher sends one observation to the broker.
type ObservationPublisher interface {
	Publish(ctx context.Context, obs types.Observation) error
}

// Register attaches the observation handler to the subscriber.
func (s *Service) Register(subscriber mqtt.MessageSubscriber) {
	subscriber.SetMessageHandler(s.HandleObservation)
}

// HandleObservation validates and stores one incoming observation. Validation
// failures are wrapped with mqtt.ErrInvalidMessage.
func (s *Service) HandleObservation(ctx context.Context, obs types.Observation) error {
	day, err := dataset.DayFromObservation(obs)
	if err != nil {
		return fmt.Errorf("%w: %v", mqtt.ErrInvalidMessage, err)
	}
	if err := s.repository.UpsertObservation(ctx, day, obs.StationID); err != nil {
		return err
	}
	s.logger.Debug("stored observation", "date", obs.Date, "station_id", obs.StationID)
	return nil
}

// Publish loads the dataset and sends one observation per day. It stops at the
// first failure and reports how many were sent.
func (s *Service) Publish(ctx context.Context, publisher ObservationPublisher, stationID string) (int, error) {
	days, err := s.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}
	for i, d := range days {
		if err := publisher.Publish(ctx, dataset.ObservationFromDay(d, stationID)); err != nil {
			return i, err
		}
	}
	s.logger.Info("dataset published", "days", len(days), "station_id", stationID)
	return len(days), nil
}
