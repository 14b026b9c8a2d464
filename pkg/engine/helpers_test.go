package engine

import (
	"bytes"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/getmockd/sensormock/pkg/config"
	"github.com/getmockd/sensormock/pkg/mirror"
)

// testConfig returns a loopback configuration with a fast stream.
func testConfig() *config.ServerConfiguration {
	cfg := config.DefaultServerConfiguration()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.StreamInterval = time.Millisecond
	return cfg
}

// newTestServer serves srv.Handler() on an httptest server.
func newTestServer(t *testing.T, cfg *config.ServerConfiguration, opts ...ServerOption) (*Server, *httptest.Server) {
	t.Helper()

	srv := NewServer(cfg, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

// lockedBuffer is a goroutine-safe bytes.Buffer for log assertions.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// collectingMirror records every enqueued message.
type collectingMirror struct {
	mu       sync.Mutex
	messages []mirror.Message
}

func (m *collectingMirror) Enqueue(msg mirror.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *collectingMirror) Messages() []mirror.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mirror.Message(nil), m.messages...)
}
