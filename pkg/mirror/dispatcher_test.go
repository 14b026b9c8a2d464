package mirror

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string

	mu       sync.Mutex
	messages []Message
	closed   bool
	err      error
	block    chan struct{}
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(ctx context.Context, msg Message) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.err
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSink) snapshot() ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...), s.closed
}

func TestDispatcher_FansOutInOrder(t *testing.T) {
	t.Parallel()

	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b", err: errors.New("broker down")}
	d := NewDispatcher([]Sink{a, b})
	assert.Equal(t, []string{"a", "b"}, d.Sinks())

	for i := range 10 {
		require.NoError(t, d.Enqueue(Message{Key: "s1", Payload: []byte{byte('0' + i)}}))
	}
	require.NoError(t, d.Close())

	for _, s := range []*recordingSink{a, b} {
		msgs, closed := s.snapshot()
		assert.True(t, closed, s.name)
		require.Len(t, msgs, 10, s.name)
		for i, m := range msgs {
			assert.Equal(t, []byte{byte('0' + i)}, m.Payload)
		}
	}
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	t.Parallel()

	var dropped atomic.Int64
	sink := &recordingSink{name: "slow", block: make(chan struct{})}
	d := NewDispatcher([]Sink{sink},
		WithQueueSize(2),
		WithDropHook(func() { dropped.Add(1) }),
	)

	start := time.Now()
	var full int
	for range 20 {
		if err := d.Enqueue(Message{Key: "k"}); errors.Is(err, ErrQueueFull) {
			full++
		}
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Positive(t, full)
	assert.Equal(t, int64(full), dropped.Load())

	close(sink.block)
	require.NoError(t, d.Close())
}

func TestDispatcher_EnqueueAfterClose(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.Enqueue(Message{}), ErrClosed)
}

func TestDispatcher_PublishTimeout(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{name: "stuck", block: make(chan struct{})}
	d := NewDispatcher([]Sink{sink}, WithPublishTimeout(10*time.Millisecond))

	require.NoError(t, d.Enqueue(Message{Key: "k"}))

	done := make(chan struct{})
	go func() {
		_ = d.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not return after publish timeout")
	}
}

func TestReadingsTopic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sensormock/dev-1/readings", ReadingsTopic("sensormock", "dev-1"))
	assert.Equal(t, "a/b/dev-1/readings", ReadingsTopic("/a/b/", "dev-1"))
	assert.Equal(t, "dev-1/readings", ReadingsTopic("", "dev-1"))
}
