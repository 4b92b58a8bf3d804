package commands

import (
	"meteochart/internal/app"
)

type ServeCmd struct{}

func (s *ServeCmd) Run(c *Context) error {
	return app.Run(c.Ctx, c.Config)
}
