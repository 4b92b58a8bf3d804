package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"meteochart/internal/config"
	"meteochart/internal/modules/weather/types"
)

// Publisher sends observations to the configured topic.
type Publisher struct {
	*conn
}

func NewPublisher(cfg config.MQTTConfig, logger *slog.Logger) *Publisher {
	return &Publisher{conn: newConn(cfg, cfg.ClientID+"-publisher", logger, nil)}
}

func (p *Publisher) Connect(ctx context.Context) error {
	if err := p.connect(ctx); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, obs types.Observation) error {
	if !p.isConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	data, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}

	token := p.client.Publish(p.cfg.Topic, QoS, false, data)
	if err := p.wait(ctx, token); err != nil {
		p.logger.Error("failed to publish observation", "topic", p.cfg.Topic, "date", obs.Date, "error", err)
		return fmt.Errorf("publish observation %s: %w", obs.Date, err)
	}

	p.logger.Debug("published observation", "topic", p.cfg.Topic, "date", obs.Date)
	return nil
}

func (p *Publisher) Disconnect() {
	p.stop(nil)
	p.logger.Info("mqtt publisher disconnected")
}
