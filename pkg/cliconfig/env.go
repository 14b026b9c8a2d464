package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvHost            = "SENSORMOCK_HOST"
	EnvPort            = "SENSORMOCK_PORT"
	EnvMetricsPort     = "SENSORMOCK_METRICS_PORT"
	EnvDeviceID        = "SENSORMOCK_DEVICE_ID"
	EnvStreamCount     = "SENSORMOCK_STREAM_COUNT"
	EnvStreamInterval  = "SENSORMOCK_STREAM_INTERVAL"
	EnvMaxBodyBytes    = "SENSORMOCK_MAX_BODY_BYTES"
	EnvLogLevel        = "SENSORMOCK_LOG_LEVEL"
	EnvLogFormat       = "SENSORMOCK_LOG_FORMAT"
	EnvMQTTBroker      = "SENSORMOCK_MQTT_BROKER"
	EnvMQTTTopicPrefix = "SENSORMOCK_MQTT_TOPIC_PREFIX"
	EnvMQTTPort        = "SENSORMOCK_MQTT_PORT"
	EnvKafkaBrokers    = "SENSORMOCK_KAFKA_BROKERS"
	EnvKafkaTopic      = "SENSORMOCK_KAFKA_TOPIC"
	EnvConfig          = "SENSORMOCK_CONFIG"
)

// LoadEnvConfig applies the SENSORMOCK_* variables present in the
// environment. A malformed number or duration is an error.
func LoadEnvConfig(cfg *CLIConfig) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	str := func(name, key string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
			cfg.Sources[key] = SourceEnv
		}
	}
	num := func(name, key string, dst *int) error {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		*dst = n
		cfg.Sources[key] = SourceEnv
		return nil
	}

	str(EnvHost, "host", &cfg.Host)
	str(EnvDeviceID, "deviceId", &cfg.DeviceID)
	str(EnvLogLevel, "logLevel", &cfg.LogLevel)
	str(EnvLogFormat, "logFormat", &cfg.LogFormat)
	str(EnvMQTTBroker, "mqttBroker", &cfg.MQTTBroker)
	str(EnvMQTTTopicPrefix, "mqttTopicPrefix", &cfg.MQTTTopicPrefix)
	str(EnvKafkaTopic, "kafkaTopic", &cfg.KafkaTopic)

	for _, n := range []struct {
		name, key string
		dst       *int
	}{
		{EnvPort, "port", &cfg.Port},
		{EnvMetricsPort, "metricsPort", &cfg.MetricsPort},
		{EnvStreamCount, "streamCount", &cfg.StreamCount},
		{EnvMQTTPort, "mqttPort", &cfg.MQTTPort},
	} {
		if err := num(n.name, n.key, n.dst); err != nil {
			return err
		}
	}

	if v := os.Getenv(EnvStreamInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStreamInterval, v, err)
		}
		cfg.StreamInterval = d
		cfg.Sources["streamInterval"] = SourceEnv
	}

	if v := os.Getenv(EnvMaxBodyBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxBodyBytes, v, err)
		}
		cfg.MaxBodyBytes = n
		cfg.Sources["maxBodyBytes"] = SourceEnv
	}

	if v := os.Getenv(EnvKafkaBrokers); v != "" {
		cfg.KafkaBrokers = SplitList(v)
		cfg.Sources["kafkaBrokers"] = SourceEnv
	}

	return nil
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
