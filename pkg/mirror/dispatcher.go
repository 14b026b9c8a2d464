package mirror

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/getmockd/sensormock/pkg/logging"
)

const (
	// DefaultQueueSize is the number of readings buffered ahead of the sinks.
	DefaultQueueSize = 1024

	// DefaultPublishTimeout bounds a single sink publish.
	DefaultPublishTimeout = 5 * time.Second
)

// Dispatcher fans readings out to sinks from a single worker goroutine.
type Dispatcher struct {
	sinks   []Sink
	queue   chan Message
	timeout time.Duration
	onDrop  func()
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for sink failures.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithQueueSize sets the queue capacity.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Message, n)
		}
	}
}

// WithPublishTimeout bounds each sink publish.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDropHook is called every time Enqueue drops a message.
func WithDropHook(fn func()) Option {
	return func(d *Dispatcher) {
		d.onDrop = fn
	}
}

// NewDispatcher starts the worker. Close must be called to release it.
func NewDispatcher(sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		timeout: DefaultPublishTimeout,
		log:     logging.Nop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.queue == nil {
		d.queue = make(chan Message, DefaultQueueSize)
	}

	go d.run()
	return d
}

// Sinks returns the configured sink names.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Enqueue hands msg to the worker without blocking.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		if d.onDrop != nil {
			d.onDrop()
		}
		return ErrQueueFull
	}
}

// Close stops accepting messages, drains the queue and closes every sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done

	var errs []error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for msg := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			err := s.Publish(ctx, msg)
			cancel()
			if err != nil {
				d.log.Warn("mirror publish failed", "sink", s.Name(), "key", msg.Key, "error", err)
			}
		}
	}
}
