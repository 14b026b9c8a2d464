package mirror

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrQueueFull is returned by Enqueue when the message was dropped.
	ErrQueueFull = errors.New("mirror queue full")

	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("mirror closed")
)

// Message is one reading to republish.
type Message struct {
	// Key groups messages of one stream session (Kafka partition key).
	Key string
	// Payload is the JSON encoded reading.
	Payload []byte
	// Time is when the reading was produced.
	Time time.Time
}

// Sink delivers messages to one broker.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Publish delivers one message, honouring ctx for cancellation.
	Publish(ctx context.Context, msg Message) error
	// Close releases the broker connection.
	Close() error
}

// ReadingsTopic builds the per-device topic "<prefix>/<deviceID>/readings".
func ReadingsTopic(prefix, deviceID string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return deviceID + "/readings"
	}
	return prefix + "/" + deviceID + "/readings"
}
