package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"meteochart/internal/commands"
	"meteochart/internal/config"
	"meteochart/internal/logging"
)

var version = "dev"
var appName = "meteochart"

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name(appName),
		kong.Description("Daily weather chart with linked metric selection."),
		kong.UsageOnError(),
	)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"command", kctx.Command(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kctx.Run(&commands.Context{Ctx: ctx, Config: cfg, Stdout: os.Stdout}); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}
