package mqtt

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"meteochart/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// QoS is used for both subscribe and publish: every observation is delivered
// at least once and upserts are idempotent.
const QoS byte = 1

var errStopped = errors.New("mqtt client stopped")

// conn holds the paho client and the connection state shared by Subscriber
// and Publisher.
type conn struct {
	client    mqtt.Client
	cfg       config.MQTTConfig
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newConn(cfg config.MQTTConfig, clientID string, logger *slog.Logger, onConnect func()) *conn {
	if logger == nil {
		logger = slog.Default()
	}
	c := &conn{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL())
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port, "client_id", clientID)
		if onConnect != nil {
			onConnect()
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c
}

// connect waits for the initial connection while honouring ctx and stop.
func (c *conn) connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return errStopped
	default:
	}
	if c.isConnected() {
		return nil
	}

	if err := c.wait(ctx, c.client.Connect()); err != nil {
		c.client.Disconnect(0)
		return err
	}
	return nil
}

// wait blocks until the token completes, ctx ends or the client is stopped.
func (c *conn) wait(ctx context.Context, token mqtt.Token) error {
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			return token.Error()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return errStopped
		default:
		}
	}
}

func (c *conn) isConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

func (c *conn) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// stop is idempotent; before is run while still connected.
func (c *conn) stop(before func()) {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if before != nil && c.isConnected() {
			before()
		}
		c.client.Disconnect(250)
		c.setConnected(false)
	})
}
