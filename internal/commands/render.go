package commands

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"meteochart/internal/modules/chart/selection"
	weather "meteochart/internal/modules/weather"
	"meteochart/internal/modules/weather/dataset"
	"meteochart/internal/modules/weather/views"
)

type RenderCmd struct {
	Sel   string `help:"Selection replay list, e.g. temperature,precipitation." default:""`
	Out   string `help:"Output file, - for stdout." short:"o" default:"-"`
	Width int    `help:"Image width in pixels; 0 uses CHART_WIDTH."`
}

func (r *RenderCmd) Run(c *Context) error {
	opts := views.ChartOptions{Width: c.Config.ChartWidth, Height: c.Config.ChartHeight}
	if r.Width < 0 {
		return errors.New("--width must not be negative")
	}
	if r.Width > 0 && opts.Width > 0 {
		opts.Height = r.Width * opts.Height / opts.Width
		opts.Width = r.Width
	}

	days, err := dataset.NewLoader(weather.NewSource(c.Config), slog.Default()).Load(c.Ctx)
	if err != nil {
		return err
	}

	state := selection.Decode(r.Sel)
	if state.Encode() != r.Sel {
		slog.Warn("selection adjusted to the selection rules", "requested", r.Sel, "sel", state.Encode())
	}

	var buf bytes.Buffer
	if err := views.RenderChart(&buf, state, days, opts); err != nil {
		return err
	}

	w, err := create(c, r.Out)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", r.Out, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	slog.Info("chart rendered", "sel", state.Encode(), "days", len(days), "out", r.Out)
	return nil
}
