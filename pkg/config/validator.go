package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns the first problem found.
func (s *ServerConfiguration) Validate() error {
	if s.Port < 0 || s.Port >= 65536 {
		return &ValidationError{
			Field:   "port",
			Message: "port must be between 0 and 65535",
		}
	}

	if s.MetricsPort < 0 || s.MetricsPort >= 65536 {
		return &ValidationError{
			Field:   "metricsPort",
			Message: "metricsPort must be between 0 and 65535",
		}
	}

	if s.MQTT.Port < 0 || s.MQTT.Port >= 65536 {
		return &ValidationError{
			Field:   "mqtt.port",
			Message: "mqtt.port must be between 0 and 65535",
		}
	}

	// Ports must not conflict (all different if > 0)
	ports := make(map[int]string)
	for _, p := range []struct {
		name string
		port int
	}{
		{"port", s.Port},
		{"metricsPort", s.MetricsPort},
		{"mqtt.port", s.MQTT.Port},
	} {
		if p.port <= 0 {
			continue
		}
		if name, exists := ports[p.port]; exists {
			return &ValidationError{
				Field:   p.name,
				Message: fmt.Sprintf("%s conflicts with %s (both are %d)", p.name, name, p.port),
			}
		}
		ports[p.port] = p.name
	}

	if strings.TrimSpace(s.DeviceID) == "" {
		return &ValidationError{
			Field:   "deviceId",
			Message: "deviceId is required",
		}
	}
	if strings.ContainsAny(s.DeviceID, "/+#") {
		return &ValidationError{
			Field:   "deviceId",
			Message: "deviceId must not contain '/', '+' or '#'",
		}
	}

	if s.StreamCount < 1 {
		return &ValidationError{
			Field:   "streamCount",
			Message: "streamCount must be at least 1",
		}
	}

	if s.StreamInterval < 0 {
		return &ValidationError{
			Field:   "streamInterval",
			Message: "streamInterval must not be negative",
		}
	}

	if s.MaxBodyBytes <= 0 {
		return &ValidationError{
			Field:   "maxBodyBytes",
			Message: "maxBodyBytes must be positive",
		}
	}

	if s.MQTT.Broker != "" {
		u, err := url.Parse(s.MQTT.Broker)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ValidationError{
				Field:   "mqtt.broker",
				Message: fmt.Sprintf("invalid broker URL %q", s.MQTT.Broker),
			}
		}
	}

	if s.MQTT.Broker != "" || s.MQTT.Port > 0 {
		if strings.ContainsAny(s.MQTT.TopicPrefix, "+#") {
			return &ValidationError{
				Field:   "mqtt.topicPrefix",
				Message: "topicPrefix must not contain wildcards",
			}
		}
	}

	if len(s.Kafka.Brokers) > 0 && strings.TrimSpace(s.Kafka.Topic) == "" {
		return &ValidationError{
			Field:   "kafka.topic",
			Message: "kafka.topic is required when kafka.brokers is set",
		}
	}

	return nil
}
