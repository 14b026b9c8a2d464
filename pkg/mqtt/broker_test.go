package mqtt

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T) *Broker {
	t.Helper()

	b, err := NewBroker(Config{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	require.NoError(t, b.Start(context.Background()))
	t.Cleanup(func() {
		_ = b.Stop(context.Background(), 5*time.Second)
	})
	return b
}

func TestNewBroker_InvalidPort(t *testing.T) {
	t.Parallel()

	_, err := NewBroker(Config{Port: 70000})
	assert.Error(t, err)
}

func TestBroker_StartStop(t *testing.T) {
	t.Parallel()

	b, err := NewBroker(Config{Host: "127.0.0.1"})
	require.NoError(t, err)
	assert.False(t, b.IsRunning())
	assert.Equal(t, 0, b.Port())
	assert.Empty(t, b.URL())

	require.NoError(t, b.Start(context.Background()))
	assert.True(t, b.IsRunning())
	assert.NotZero(t, b.Port())
	assert.Contains(t, b.URL(), "tcp://127.0.0.1:")

	assert.Error(t, b.Start(context.Background()), "second start must fail")

	require.NoError(t, b.Stop(context.Background(), 5*time.Second))
	assert.False(t, b.IsRunning())
	require.NoError(t, b.Stop(context.Background(), time.Second), "stop is idempotent")
}

func TestBroker_StartPortInUse(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	b, err := NewBroker(Config{Host: "127.0.0.1", Port: port})
	require.NoError(t, err)

	err = b.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen on")
}

func TestBroker_InternalSubscription(t *testing.T) {
	t.Parallel()

	b := startBroker(t)

	received := make(chan []byte, 1)
	b.Subscribe("sensors/+/readings", func(topic string, payload []byte) {
		assert.Equal(t, "sensors/dev-1/readings", topic)
		received <- payload
	})

	payload := []byte(`{"counter":0}`)
	require.NoError(t, b.Publish("sensors/dev-1/readings", payload, 0, false))

	select {
	case got := <-received:
		assert.Equal(t, payload, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	assert.GreaterOrEqual(t, b.Published(), int64(1))

	b.Unsubscribe("sensors/+/readings")
}

func TestBroker_PublishNotRunning(t *testing.T) {
	t.Parallel()

	b, err := NewBroker(Config{})
	require.NoError(t, err)
	assert.Error(t, b.Publish("a/b", []byte("x"), 0, false))
}

func TestMatchTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"sensors/dev/readings", "sensors/dev/readings", true},
		{"sensors/+/readings", "sensors/dev/readings", true},
		{"sensors/#", "sensors/dev/readings", true},
		{"sensors/+", "sensors/dev/readings", false},
		{"sensors/dev/readings", "sensors/dev", false},
		{"other/#", "sensors/dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, matchTopic(tt.pattern, tt.topic))
		})
	}
}
