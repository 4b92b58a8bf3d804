package commands

import (
	"log/slog"

	"meteochart/internal/db"
	"meteochart/internal/migrate"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(c *Context) error {
	dbConn, err := db.Open(c.Ctx, c.Config, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(dbConn); err != nil {
			slog.Error("db close", "error", err)
		}
	}()

	applied, err := migrate.Run(c.Ctx, dbConn, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("migrations done", "applied", len(applied))
	return nil
}
