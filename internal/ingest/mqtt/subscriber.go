// Package mqtt receives landmark frames published by the pose estimator on an
// MQTT topic.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/presscoach/internal/ingest/landmarks"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config selects the broker and topic.
type Config struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Format   landmarks.Format
}

// Subscriber feeds every message on the topic to the landmark provider.
type Subscriber struct {
	cfg      Config
	provider *landmarks.Provider
	log      *slog.Logger
	client   paho.Client
}

// NewSubscriber creates a subscriber; call Start to connect.
func NewSubscriber(cfg Config, provider *landmarks.Provider, log *slog.Logger) *Subscriber {
	return &Subscriber{cfg: cfg, provider: provider, log: log}
}

// Start connects to the broker and subscribes. Subscriptions are restored
// after a reconnect.
func (s *Subscriber) Start() error {
	opts := paho.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c paho.Client) {
			if err := s.subscribe(c); err != nil {
				s.log.Error("mqtt subscribe failed", "topic", s.cfg.Topic, "error", err)
			}
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			s.log.Warn("mqtt connection lost", "broker", s.cfg.Broker, "error", err)
		})

	s.client = paho.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(30*time.Second) {
		return fmt.Errorf("connecting to mqtt broker %s: timed out", s.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to mqtt broker %s: %w", s.cfg.Broker, err)
	}
	s.log.Info("connected to mqtt broker", "broker", s.cfg.Broker)
	return nil
}

func (s *Subscriber) subscribe(c paho.Client) error {
	token := c.Subscribe(s.cfg.Topic, s.cfg.QoS, s.handle)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	s.log.Info("subscribed to landmark frames", "topic", s.cfg.Topic, "format", s.cfg.Format)
	return nil
}

// handle runs on the paho router goroutine, so messages are applied in order.
func (s *Subscriber) handle(_ paho.Client, msg paho.Message) {
	result, err := s.provider.IngestBytes(context.Background(), msg.Payload(), s.cfg.Format)
	if err != nil {
		s.log.Debug("mqtt frame not applied", "topic", msg.Topic(), "error", err)
		return
	}
	if result.FramesRejected > 0 {
		s.log.Debug("mqtt frame rejected", "topic", msg.Topic(), "message", result.Message)
	}
}

// Stop unsubscribes and disconnects, waiting up to 250ms for in-flight work.
func (s *Subscriber) Stop() {
	if s.client == nil || !s.client.IsConnected() {
		return
	}
	s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(time.Second)
	s.client.Disconnect(250)
}
