package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"meteochart/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:       "dev",
		HTTPAddr:     "127.0.0.1:0",
		DataDir:      filepath.Join("..", "..", "data"),
		FetchTimeout: time.Second,
		Driver:       "sqlite3",
		Path:         filepath.Join(t.TempDir(), "meteochart.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		ChartWidth:   960,
		ChartHeight:  600,
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, testConfig(t)) }()

	time.Sleep(time.Second)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v; want context.Canceled", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_RefreshFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Run(ctx, cfg); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v; want context.DeadlineExceeded", err)
	}
}

func TestRun_InvalidDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Path = ""
	if err := Run(context.Background(), cfg); err == nil {
		t.Error("Run() = nil; want database error")
	}
}
