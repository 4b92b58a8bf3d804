package commands

import (
	"log/slog"

	weather "meteochart/internal/modules/weather"
	"meteochart/internal/modules/weather/dataset"
	"meteochart/internal/modules/weather/export"
)

type ExportCmd struct {
	Out string `help:"Output xlsx file." short:"o" default:"meteochart.xlsx" type:"path"`
}

func (e *ExportCmd) Run(c *Context) error {
	days, err := dataset.NewLoader(weather.NewSource(c.Config), slog.Default()).Load(c.Ctx)
	if err != nil {
		return err
	}
	if err := export.Save(e.Out, days); err != nil {
		return err
	}
	slog.Info("dataset exported", "days", len(days), "out", e.Out)
	return nil
}
