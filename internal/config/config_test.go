package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, vars map[string]string) (Config, error) {
	t.Helper()
	return Load(context.Background(), envconfig.MapLookuper(vars))
}

func TestLoad_Defaults(t *testing.T) {
	got, err := load(t, nil)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if !filepath.IsAbs(got.DataDir) || filepath.Base(got.DataDir) != "data" {
		t.Errorf("DataDir = %q, want absolute path ending in data", got.DataDir)
	}
	if got.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want 30s", got.FetchTimeout)
	}
	if got.FetchRetries != 3 {
		t.Errorf("FetchRetries = %d, want 3", got.FetchRetries)
	}
	if got.Driver != "sqlite3" {
		t.Errorf("Driver = %q, want sqlite3", got.Driver)
	}
	if got.MQTT.Enabled {
		t.Error("MQTT.Enabled = true, want false")
	}
	if got.MQTT.Topic != "meteochart/daily" {
		t.Errorf("MQTT.Topic = %q, want meteochart/daily", got.MQTT.Topic)
	}
	if got.MQTT.BrokerURL() != "tcp://localhost:1883" {
		t.Errorf("BrokerURL() = %q", got.MQTT.BrokerURL())
	}
	if got.ChartWidth != 960 || got.ChartHeight != 600 {
		t.Errorf("chart size = %dx%d, want 960x600", got.ChartWidth, got.ChartHeight)
	}
}

func TestLoad_AppEnv(t *testing.T) {
	tests := []struct {
		name    string
		appEnv  string
		want    string
		wantErr bool
	}{
		{name: "dev", appEnv: "dev", want: "dev"},
		{name: "prod", appEnv: "prod", want: "prod"},
		{name: "prod with whitespace", appEnv: "\nprod\t", want: "prod"},
		{name: "staging", appEnv: "staging", wantErr: true},
		{name: "uppercase", appEnv: "DEV", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(t, map[string]string{"APP_ENV": tt.appEnv})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Load() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v, want nil", err)
			}
			if got.AppEnv != tt.want {
				t.Errorf("AppEnv = %q, want %q", got.AppEnv, tt.want)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	got, err := load(t, map[string]string{
		"LOG_LEVEL":         "debug",
		"HTTP_ADDR":         "  127.0.0.1:9090 ",
		"DATA_BASE_URL":     "https://example.org/data/",
		"FETCH_TIMEOUT":     "5s",
		"FETCH_RETRIES":     "0",
		"DB_LOG_SQL":        "true",
		"MQTT_ENABLED":      "true",
		"MQTT_BROKER":       "broker",
		"MQTT_PORT":         "18830",
		"CHART_WIDTH":       "1200",
		"DB_MAX_OPEN_CONNS": "4",
	})
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if got.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelDebug)
	}
	if got.HTTPAddr != "127.0.0.1:9090" {
		t.Errorf("HTTPAddr = %q", got.HTTPAddr)
	}
	if got.DataBaseURL != "https://example.org/data/" {
		t.Errorf("DataBaseURL = %q", got.DataBaseURL)
	}
	if got.FetchTimeout != 5*time.Second || got.FetchRetries != 0 {
		t.Errorf("fetch = %v/%d, want 5s/0", got.FetchTimeout, got.FetchRetries)
	}
	if !got.LogSQL {
		t.Error("LogSQL = false, want true")
	}
	if !got.MQTT.Enabled || got.MQTT.BrokerURL() != "tcp://broker:18830" {
		t.Errorf("MQTT = %+v", got.MQTT)
	}
	if got.ChartWidth != 1200 {
		t.Errorf("ChartWidth = %d, want 1200", got.ChartWidth)
	}
	if got.MaxOpenConns != 4 {
		t.Errorf("MaxOpenConns = %d, want 4", got.MaxOpenConns)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "log level", vars: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "timeout syntax", vars: map[string]string{"FETCH_TIMEOUT": "soon"}},
		{name: "zero timeout", vars: map[string]string{"FETCH_TIMEOUT": "0s"}},
		{name: "negative retries", vars: map[string]string{"FETCH_RETRIES": "-1"}},
		{name: "conns not a number", vars: map[string]string{"DB_MAX_OPEN_CONNS": "many"}},
		{name: "mqtt port", vars: map[string]string{"MQTT_PORT": "70000"}},
		{name: "tiny chart", vars: map[string]string{"CHART_WIDTH": "100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(t, tt.vars); err == nil {
				t.Fatalf("Load() error = nil, want non-nil")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "  ERROR \n", want: slog.LevelError},
		{in: "", want: slog.LevelInfo, wantErr: true},
		{in: "warns", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
