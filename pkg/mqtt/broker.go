package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/getmockd/sensormock/pkg/logging"
)

// DefaultPort is the standard MQTT port.
const DefaultPort = 1883

// Config configures the embedded broker.
type Config struct {
	Host string
	// Port may be 0 to pick a free port.
	Port int
}

// SubscriptionHandler receives messages published to a matching topic.
type SubscriptionHandler func(topic string, payload []byte)

// Broker is an embedded MQTT broker.
type Broker struct {
	config Config
	server *mqtt.Server
	log    *slog.Logger

	mu          sync.RWMutex
	running     bool
	addr        string
	subscribers map[string][]SubscriptionHandler

	published atomic.Int64
	stopping  atomic.Bool
}

// NewBroker creates a broker. It does not listen until Start.
func NewBroker(config Config) (*Broker, error) {
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid mqtt port %d", config.Port)
	}

	server := mqtt.New(&mqtt.Options{
		InlineClient: true,
	})

	b := &Broker{
		config:      config,
		server:      server,
		log:         logging.Nop(),
		subscribers: make(map[string][]SubscriptionHandler),
	}

	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, fmt.Errorf("failed to add allow hook: %w", err)
	}
	if err := server.AddHook(newMessageHook(b), nil); err != nil {
		return nil, fmt.Errorf("failed to add message hook: %w", err)
	}

	return b, nil
}

// SetLogger sets the operational logger.
func (b *Broker) SetLogger(log *slog.Logger) {
	if log == nil {
		return
	}
	b.mu.Lock()
	b.log = log
	b.mu.Unlock()
}

// Start binds the listener and serves clients in the background.
// A bind failure is returned immediately.
func (b *Broker) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return errors.New("broker is already running")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(b.config.Host, strconv.Itoa(b.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if err := b.server.AddListener(listeners.NewNet("mqtt-tcp", ln)); err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to add listener: %w", err)
	}

	log := b.log
	go func() {
		if err := b.server.Serve(); err != nil {
			log.Error("mqtt server error", "error", err)
		}
	}()

	b.addr = ln.Addr().String()
	b.running = true
	b.log.Info("mqtt broker started", "addr", b.addr)
	return nil
}

// Stop closes the broker, waiting at most timeout for clients to disconnect.
func (b *Broker) Stop(ctx context.Context, timeout time.Duration) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	// Hooks fired by server.Close must not wait on b.mu.
	b.stopping.Store(true)
	b.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- b.server.Close()
	}()

	var closeErr error
	select {
	case err := <-done:
		closeErr = err
	case <-shutdownCtx.Done():
		closeErr = fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
	}

	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	if closeErr != nil {
		return fmt.Errorf("failed to close mqtt broker: %w", closeErr)
	}
	return nil
}

// IsRunning reports whether the broker is serving.
func (b *Broker) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// Addr returns the bound address, or "" before Start.
func (b *Broker) Addr() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.addr
}

// Port returns the bound port, or 0 before Start.
func (b *Broker) Port() int {
	addr := b.Addr()
	if addr == "" {
		return 0
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(port)
	return n
}

// URL returns a loopback broker URL usable by local clients.
func (b *Broker) URL() string {
	port := b.Port()
	if port == 0 {
		return ""
	}
	return "tcp://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

// Published returns the number of messages the broker has accepted.
func (b *Broker) Published() int64 {
	return b.published.Load()
}

// Publish publishes a message from the broker's inline client.
func (b *Broker) Publish(topic string, payload []byte, qos byte, retain bool) error {
	if !b.IsRunning() {
		return errors.New("broker is not running")
	}
	return b.server.Publish(topic, payload, retain, qos)
}

// Subscribe registers an in-process handler for a topic filter.
func (b *Broker) Subscribe(filter string, handler SubscriptionHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[filter] = append(b.subscribers[filter], handler)
}

// Unsubscribe removes every handler for filter.
func (b *Broker) Unsubscribe(filter string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, filter)
}

func (b *Broker) notifySubscribers(topic string, payload []byte) {
	if b.stopping.Load() {
		return
	}

	b.mu.RLock()
	var handlers []SubscriptionHandler
	for filter, hs := range b.subscribers {
		if matchTopic(filter, topic) {
			handlers = append(handlers, hs...)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(topic, payload)
	}
}
