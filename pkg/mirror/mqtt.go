package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/getmockd/sensormock/internal/id"
)

// DefaultConnectTimeout bounds the initial broker connection.
const DefaultConnectTimeout = 10 * time.Second

// MQTTConfig configures an MQTTSink.
type MQTTConfig struct {
	// Broker is the broker URL, e.g. tcp://localhost:1883.
	Broker string
	// ClientID defaults to "sensormock-<random hex>".
	ClientID string
	Username string
	Password string
	// Topic receives every reading.
	Topic string
	// QoS is the publish quality of service (0, 1 or 2).
	QoS byte
	// ConnectTimeout defaults to DefaultConnectTimeout.
	ConnectTimeout time.Duration
}

// MQTTSink publishes readings to an MQTT topic.
type MQTTSink struct {
	client paho.Client
	topic  string
	qos    byte
}

// NewMQTTSink connects to the broker and returns a ready sink. Cancelling ctx
// abandons the connection attempt.
func NewMQTTSink(ctx context.Context, cfg MQTTConfig) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker URL is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("mqtt topic is required")
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("invalid mqtt qos %d", cfg.QoS)
	}
	if cfg.ClientID == "" {
		cfg.ClientID = id.ClientID("sensormock")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := paho.NewClient(opts)
	token := client.Connect()

	timer := time.NewTimer(cfg.ConnectTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-ctx.Done():
		client.Disconnect(0)
		return nil, fmt.Errorf("connecting to mqtt broker %s: %w", cfg.Broker, ctx.Err())
	case <-timer.C:
		client.Disconnect(0)
		return nil, fmt.Errorf("connecting to mqtt broker %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to mqtt broker %s: %w", cfg.Broker, err)
	}

	return &MQTTSink{client: client, topic: cfg.Topic, qos: cfg.QoS}, nil
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Topic returns the publish topic.
func (s *MQTTSink) Topic() string { return s.topic }

// Publish implements Sink.
func (s *MQTTSink) Publish(ctx context.Context, msg Message) error {
	token := s.client.Publish(s.topic, s.qos, false, msg.Payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements Sink.
func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
