package config

import (
	"net"
	"strconv"
	"time"

	"github.com/getmockd/sensormock/pkg/sensor"
)

const (
	// DefaultHost binds every interface.
	DefaultHost = "0.0.0.0"
	// DefaultPort is the HTTP port for device traffic.
	DefaultPort = 8080
	// DefaultMaxBodyBytes caps POST /data bodies (1 MiB).
	DefaultMaxBodyBytes = 1 << 20
	// DefaultMQTTTopicPrefix prefixes mirrored reading topics.
	DefaultMQTTTopicPrefix = "sensormock"
	// DefaultKafkaTopic receives mirrored readings.
	DefaultKafkaTopic = "sensormock.readings"
	// DefaultReadHeaderTimeout bounds request header reads.
	DefaultReadHeaderTimeout = 10 * time.Second
)

// ServerConfiguration holds the server's runtime settings.
type ServerConfiguration struct {
	// Host is the bind address ("0.0.0.0" for all interfaces).
	Host string `json:"host" yaml:"host"`
	// Port is the HTTP port (0 picks a free port).
	Port int `json:"port" yaml:"port"`
	// MetricsPort serves /metrics and /health (0 = disabled).
	MetricsPort int `json:"metricsPort,omitempty" yaml:"metricsPort,omitempty"`
	// DeviceID is reported by GET /data and used in mirror topics.
	DeviceID string `json:"deviceId" yaml:"deviceId"`
	// StreamCount is the number of readings per GET /stream.
	StreamCount int `json:"streamCount" yaml:"streamCount"`
	// StreamInterval is the pause between readings.
	StreamInterval time.Duration `json:"streamInterval" yaml:"streamInterval"`
	// MaxBodyBytes caps the POST /data body.
	MaxBodyBytes int64 `json:"maxBodyBytes" yaml:"maxBodyBytes"`
	// ReadHeaderTimeout bounds request header reads.
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout,omitempty" yaml:"readHeaderTimeout,omitempty"`

	// MQTT configures the reading mirror's MQTT side and the embedded broker.
	MQTT MQTTConfig `json:"mqtt" yaml:"mqtt"`
	// Kafka configures the reading mirror's Kafka side.
	Kafka KafkaConfig `json:"kafka" yaml:"kafka"`
}

// MQTTConfig configures MQTT mirroring.
type MQTTConfig struct {
	// Broker is an external broker URL, e.g. tcp://broker:1883.
	Broker string `json:"broker,omitempty" yaml:"broker,omitempty"`
	// TopicPrefix builds "<prefix>/<deviceId>/readings".
	TopicPrefix string `json:"topicPrefix" yaml:"topicPrefix"`
	// Port starts the embedded broker when > 0.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
}

// KafkaConfig configures Kafka mirroring.
type KafkaConfig struct {
	Brokers []string `json:"brokers,omitempty" yaml:"brokers,omitempty"`
	Topic   string   `json:"topic" yaml:"topic"`
}

// DefaultServerConfiguration returns a ServerConfiguration with default values.
func DefaultServerConfiguration() *ServerConfiguration {
	return &ServerConfiguration{
		Host:              DefaultHost,
		Port:              DefaultPort,
		DeviceID:          sensor.DefaultDeviceID,
		StreamCount:       sensor.DefaultStreamLength,
		StreamInterval:    sensor.DefaultStreamInterval,
		MaxBodyBytes:      DefaultMaxBodyBytes,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		MQTT: MQTTConfig{
			TopicPrefix: DefaultMQTTTopicPrefix,
		},
		Kafka: KafkaConfig{
			Topic: DefaultKafkaTopic,
		},
	}
}

// ApplyDefaults fills zero values that have no meaningful zero setting.
// StreamInterval and the optional ports keep their zero values.
func (s *ServerConfiguration) ApplyDefaults() {
	if s.DeviceID == "" {
		s.DeviceID = sensor.DefaultDeviceID
	}
	if s.StreamCount <= 0 {
		s.StreamCount = sensor.DefaultStreamLength
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadHeaderTimeout <= 0 {
		s.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if s.MQTT.TopicPrefix == "" {
		s.MQTT.TopicPrefix = DefaultMQTTTopicPrefix
	}
	if s.Kafka.Topic == "" {
		s.Kafka.Topic = DefaultKafkaTopic
	}
}

// Addr returns the HTTP listen address.
func (s *ServerConfiguration) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// MetricsAddr returns the admin listen address, or "" when disabled.
func (s *ServerConfiguration) MetricsAddr() string {
	if s.MetricsPort <= 0 {
		return ""
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(s.MetricsPort))
}

// MQTTAddr returns the embedded broker address, or "" when disabled.
func (s *ServerConfiguration) MQTTAddr() string {
	if s.MQTT.Port <= 0 {
		return ""
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(s.MQTT.Port))
}

// MirrorEnabled reports whether any reading mirror is configured.
func (s *ServerConfiguration) MirrorEnabled() bool {
	return s.MQTT.Broker != "" || s.MQTT.Port > 0 || len(s.Kafka.Brokers) > 0
}
