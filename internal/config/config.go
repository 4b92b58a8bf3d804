package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// env mirrors the raw environment; Config is the validated form.
type env struct {
	AppEnv   string `env:"APP_ENV,default=dev"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`

	DataDir      string        `env:"DATA_DIR,default=data"`
	DataBaseURL  string        `env:"DATA_BASE_URL"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=30s"`
	FetchRetries int           `env:"FETCH_RETRIES,default=3"`

	Driver          string        `env:"DB_DRIVER,default=sqlite3"`
	DSN             string        `env:"DB_DSN"`
	Path            string        `env:"SQLITE_PATH,default=dev/sqlite/meteochart.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=1"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=1"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=0s"`
	LogSQL          bool          `env:"DB_LOG_SQL,default=false"`

	MQTTEnabled  bool   `env:"MQTT_ENABLED,default=false"`
	MQTTBroker   string `env:"MQTT_BROKER,default=localhost"`
	MQTTPort     int    `env:"MQTT_PORT,default=1883"`
	MQTTClientID string `env:"MQTT_CLIENT_ID,default=meteochart"`
	MQTTTopic    string `env:"MQTT_TOPIC,default=meteochart/daily"`

	ChartWidth  int `env:"CHART_WIDTH,default=960"`
	ChartHeight int `env:"CHART_HEIGHT,default=600"`
}

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// DataDir is the absolute path of the local CSV directory. It is only read
	// when DataBaseURL is empty.
	DataDir      string
	DataBaseURL  string
	FetchTimeout time.Duration
	FetchRetries int

	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	MQTT MQTTConfig

	ChartWidth  int
	ChartHeight int
}

type MQTTConfig struct {
	Enabled  bool
	Broker   string
	Port     int
	ClientID string
	Topic    string
}

func LoadFromEnv() (Config, error) {
	return Load(context.Background(), envconfig.OsLookuper())
}

// Load decodes the configuration from l. Tests pass envconfig.MapLookuper.
func Load(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var e env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &e,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	appEnv := strings.TrimSpace(e.AppEnv)
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(e.LogLevel)
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(e.HTTPAddr)
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	dataDir := strings.TrimSpace(e.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}
	dataDir, err = filepath.Abs(dataDir)
	if err != nil {
		return Config{}, fmt.Errorf("DATA_DIR %q: %w", e.DataDir, err)
	}

	if e.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %s (must be positive)", e.FetchTimeout)
	}
	if e.FetchRetries < 0 {
		return Config{}, fmt.Errorf("invalid FETCH_RETRIES %d (must not be negative)", e.FetchRetries)
	}
	if e.ConnMaxLifetime < 0 {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %s", e.ConnMaxLifetime)
	}
	if e.MQTTPort <= 0 || e.MQTTPort > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %d", e.MQTTPort)
	}
	if e.ChartWidth < 320 || e.ChartHeight < 240 {
		return Config{}, fmt.Errorf("chart size %dx%d too small (minimum 320x240)", e.ChartWidth, e.ChartHeight)
	}

	driver := strings.TrimSpace(e.Driver)
	if driver == "" {
		driver = "sqlite3"
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        httpAddr,
		DataDir:         dataDir,
		DataBaseURL:     strings.TrimSpace(e.DataBaseURL),
		FetchTimeout:    e.FetchTimeout,
		FetchRetries:    e.FetchRetries,
		Driver:          driver,
		DSN:             strings.TrimSpace(e.DSN),
		Path:            strings.TrimSpace(e.Path),
		MaxOpenConns:    e.MaxOpenConns,
		MaxIdleConns:    e.MaxIdleConns,
		ConnMaxLifetime: e.ConnMaxLifetime,
		LogSQL:          e.LogSQL,
		MQTT: MQTTConfig{
			Enabled:  e.MQTTEnabled,
			Broker:   strings.TrimSpace(e.MQTTBroker),
			Port:     e.MQTTPort,
			ClientID: strings.TrimSpace(e.MQTTClientID),
			Topic:    strings.TrimSpace(e.MQTTTopic),
		},
		ChartWidth:  e.ChartWidth,
		ChartHeight: e.ChartHeight,
	}, nil
}

// BrokerURL is the paho server address, e.g. tcp://localhost:1883.
func (m MQTTConfig) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", m.Broker, m.Port)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
