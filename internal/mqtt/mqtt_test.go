package mqtt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"meteochart/internal/config"
	"meteochart/internal/modules/weather/types"
)

func testConfig() config.MQTTConfig {
	// Port 1 on loopback is never served; connects keep retrying.
	return config.MQTTConfig{Broker: "127.0.0.1", Port: 1, ClientID: "test", Topic: "meteochart/test"}
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestSubscriber_HandleMessage(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		handler  ObservationHandler
		wantCall bool
		wantLog  string
	}{
		{
			name:    "malformed json",
			payload: `{"date":`,
			wantLog: "failed to parse observation message",
		},
		{
			name:     "invalid",
			payload:  `{"date":"2024-01-01","humidity_max_pct":120}`,
			handler:  func(context.Context, types.Observation) error { return fmt.Errorf("%w: humidity", ErrInvalidMessage) },
			wantCall: true,
			wantLog:  "invalid observation message",
		},
		{
			name:     "handler failure",
			payload:  `{"date":"2024-01-01","temperature_max_c":20}`,
			handler:  func(context.Context, types.Observation) error { return errors.New("db locked") },
			wantCall: true,
			wantLog:  "message handler failed",
		},
		{
			name:     "ok",
			payload:  `{"date":"2024-01-01","temperature_max_c":20,"station_id":"athens"}`,
			handler:  func(context.Context, types.Observation) error { return nil },
			wantCall: true,
			wantLog:  "processed observation message",
		},
		{
			name:    "no handler",
			payload: `{"date":"2024-01-01"}`,
			wantLog: "no handler registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			s := NewSubscriber(testConfig(), logger)

			var got *types.Observation
			if tt.handler != nil {
				s.SetMessageHandler(func(ctx context.Context, obs types.Observation) error {
					if _, ok := ctx.Deadline(); !ok {
						t.Error("handler context has no deadline")
					}
					got = &obs
					return tt.handler(ctx, obs)
				})
			}

			s.handleMessage("meteochart/test", []byte(tt.payload))

			if (got != nil) != tt.wantCall {
				t.Errorf("handler called = %v; want %v", got != nil, tt.wantCall)
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log = %q; want it to contain %q", buf.String(), tt.wantLog)
			}
		})
	}
}

func TestSubscriber_HandleMessageDecodes(t *testing.T) {
	s := NewSubscriber(testConfig(), slog.New(slog.DiscardHandler))
	var got types.Observation
	s.SetMessageHandler(func(_ context.Context, obs types.Observation) error {
		got = obs
		return nil
	})

	s.handleMessage("t", []byte(`{"date":"2024-02-03","wind_direction_deg":270,"sunshine_s":3600}`))

	if got.Date != "2024-02-03" {
		t.Errorf("Date = %q; want 2024-02-03", got.Date)
	}
	if got.WindDirection == nil || *got.WindDirection != 270 {
		t.Errorf("WindDirection = %v; want 270", got.WindDirection)
	}
	if got.SunshineDuration == nil || *got.SunshineDuration != 3600 {
		t.Errorf("SunshineDuration = %v; want 3600", got.SunshineDuration)
	}
}

func TestSubscriber_ConnectHonoursContext(t *testing.T) {
	s := NewSubscriber(testConfig(), slog.New(slog.DiscardHandler))
	defer s.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := s.Connect(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Connect() = %v; want deadline exceeded", err)
	}
	if s.IsConnected() {
		t.Error("IsConnected() = true; want false")
	}
}

func TestSubscriber_ConnectAfterDisconnect(t *testing.T) {
	s := NewSubscriber(testConfig(), slog.New(slog.DiscardHandler))
	s.Disconnect()
	s.Disconnect()

	if err := s.Connect(context.Background()); !errors.Is(err, errStopped) {
		t.Errorf("Connect() = %v; want errStopped", err)
	}
}

func TestPublisher_NotConnected(t *testing.T) {
	p := NewPublisher(testConfig(), slog.New(slog.DiscardHandler))
	defer p.Disconnect()

	err := p.Publish(context.Background(), types.Observation{Date: "2024-01-01"})
	if err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Errorf("Publish() = %v; want not connected error", err)
	}
}
