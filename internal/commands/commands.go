// Package commands holds the meteochart command line.
package commands

import (
	"context"
	"io"
	"os"

	"meteochart/internal/config"
)

type Context struct {
	Ctx    context.Context
	Config config.Config
	// Stdout receives command output written to "-".
	Stdout io.Writer
}

type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the chart over HTTP (default)."`
	Migrate MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Render  RenderCmd  `cmd:"" help:"Render the chart for a selection to an SVG file."`
	Export  ExportCmd  `cmd:"" help:"Export the merged dataset to an xlsx workbook."`
	Publish PublishCmd `cmd:"" help:"Publish the dataset to the MQTT broker, one message per day."`
}

// create opens path for writing; "-" is the context's stdout.
func create(c *Context, path string) (io.WriteCloser, error) {
	if path == "-" {
		out := c.Stdout
		if out == nil {
			out = os.Stdout
		}
		return nopCloser{out}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
