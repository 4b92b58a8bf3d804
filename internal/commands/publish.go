package commands

import (
	"context"
	"log/slog"
	"time"

	weather "meteochart/internal/modules/weather"
	"meteochart/internal/modules/weather/dataset"
	"meteochart/internal/modules/weather/service"
	"meteochart/internal/mqtt"
)

type PublishCmd struct {
	Station        string        `help:"Station id attached to every message." default:""`
	ConnectTimeout time.Duration `help:"How long to wait for the broker." default:"10s"`
}

func (p *PublishCmd) Run(c *Context) error {
	publisher := mqtt.NewPublisher(c.Config.MQTT, slog.Default())
	connectCtx, cancel := context.WithTimeout(c.Ctx, p.ConnectTimeout)
	err := publisher.Connect(connectCtx)
	cancel()
	if err != nil {
		return err
	}
	defer publisher.Disconnect()

	// Publishing only reads the dataset; no repository is needed.
	loader := dataset.NewLoader(weather.NewSource(c.Config), slog.Default())
	n, err := service.NewService(nil, loader, slog.Default()).Publish(c.Ctx, publisher, p.Station)
	if err != nil {
		slog.Error("publish stopped", "sent", n, "error", err)
		return err
	}
	return nil
}
