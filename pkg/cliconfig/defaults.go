package cliconfig

import (
	"github.com/getmockd/sensormock/pkg/config"
	"github.com/getmockd/sensormock/pkg/logging"
)

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default operator log format.
const DefaultLogFormat = string(logging.FormatConsole)

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	server := config.DefaultServerConfiguration()

	cfg := &CLIConfig{
		Host:            server.Host,
		Port:            server.Port,
		MetricsPort:     server.MetricsPort,
		DeviceID:        server.DeviceID,
		StreamCount:     server.StreamCount,
		StreamInterval:  server.StreamInterval,
		MaxBodyBytes:    server.MaxBodyBytes,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		MQTTTopicPrefix: server.MQTT.TopicPrefix,
		MQTTPort:        server.MQTT.Port,
		KafkaTopic:      server.Kafka.Topic,
		Sources:         make(map[string]string, len(Keys)),
	}
	for _, key := range Keys {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// ToServerConfiguration converts the resolved CLI values into the engine's
// configuration.
func (c *CLIConfig) ToServerConfiguration() *config.ServerConfiguration {
	server := config.DefaultServerConfiguration()
	server.Host = c.Host
	server.Port = c.Port
	server.MetricsPort = c.MetricsPort
	server.DeviceID = c.DeviceID
	server.StreamCount = c.StreamCount
	server.StreamInterval = c.StreamInterval
	server.MaxBodyBytes = c.MaxBodyBytes
	server.MQTT = config.MQTTConfig{
		Broker:      c.MQTTBroker,
		TopicPrefix: c.MQTTTopicPrefix,
		Port:        c.MQTTPort,
	}
	server.Kafka = config.KafkaConfig{
		Brokers: append([]string(nil), c.KafkaBrokers...),
		Topic:   c.KafkaTopic,
	}
	return server
}

// LoggingConfig returns the logging configuration for the resolved values.
func (c *CLIConfig) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.LogLevel)
	cfg.Format = logging.ParseFormat(c.LogFormat)
	return cfg
}

// Validate checks the resolved configuration.
func (c *CLIConfig) Validate() error {
	if !logging.ValidFormat(c.LogFormat) {
		return &config.ValidationError{
			Field:   "logFormat",
			Message: "logFormat must be one of text, json, console",
		}
	}
	return c.ToServerConfiguration().Validate()
}
