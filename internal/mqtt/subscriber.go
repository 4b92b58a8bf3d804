package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"meteochart/internal/config"
	"meteochart/internal/modules/weather/types"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrInvalidMessage marks handler errors caused by the message itself. Those
// are logged at warn and dropped.
var ErrInvalidMessage = errors.New("invalid message")

// ObservationHandler processes one decoded observation.
type ObservationHandler func(ctx context.Context, obs types.Observation) error

// MessageSubscriber is what feature modules need to attach a handler.
type MessageSubscriber interface {
	SetMessageHandler(handler ObservationHandler)
}

type Subscriber struct {
	*conn

	handlerMu sync.RWMutex
	handler   ObservationHandler

	// handlerTimeout bounds a single handler call.
	handlerTimeout time.Duration
}

func NewSubscriber(cfg config.MQTTConfig, logger *slog.Logger) *Subscriber {
	s := &Subscriber{handlerTimeout: 10 * time.Second}
	// Subscribing from the connect callback restores the subscription after
	// every reconnect of a clean session.
	s.conn = newConn(cfg, cfg.ClientID, logger, func() {
		if err := s.subscribe(); err != nil {
			s.logger.Error("mqtt subscribe failed", "topic", cfg.Topic, "error", err)
		}
	})
	return s
}

// SetMessageHandler must be called before Connect so that messages queued by
// the broker are not lost.
func (s *Subscriber) SetMessageHandler(handler ObservationHandler) {
	s.handlerMu.Lock()
	s.handler = handler
	s.handlerMu.Unlock()
}

// Connect establishes the connection; the topic subscription follows from the
// connect callback.
func (s *Subscriber) Connect(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (s *Subscriber) IsConnected() bool {
	return s.isConnected()
}

func (s *Subscriber) Disconnect() {
	s.stop(func() {
		s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(2 * time.Second)
	})
	s.logger.Info("mqtt subscriber disconnected")
}

func (s *Subscriber) subscribe() error {
	token := s.client.Subscribe(s.cfg.Topic, QoS, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", s.cfg.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.cfg.Topic, err)
	}
	s.logger.Info("subscribed to mqtt topic", "topic", s.cfg.Topic, "qos", QoS)
	return nil
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	s.logger.Debug("received mqtt message", "topic", topic, "size", len(payload))

	var obs types.Observation
	if err := json.Unmarshal(payload, &obs); err != nil {
		s.logger.Warn("failed to parse observation message",
			"topic", topic,
			"error", err,
			"payload", string(payload),
		)
		return
	}

	s.handlerMu.RLock()
	handler := s.handler
	s.handlerMu.RUnlock()
	if handler == nil {
		s.logger.Debug("no handler registered, dropping message", "topic", topic)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.handlerTimeout)
	defer cancel()

	err := handler(ctx, obs)
	switch {
	case errors.Is(err, ErrInvalidMessage):
		s.logger.Warn("invalid observation message",
			"topic", topic,
			"date", obs.Date,
			"station_id", obs.StationID,
			"error", err,
		)
	case err != nil:
		s.logger.Error("message handler failed",
			"topic", topic,
			"date", obs.Date,
			"error", err,
		)
	default:
		s.logger.Debug("processed observation message", "date", obs.Date, "station_id", obs.StationID)
	}
}
