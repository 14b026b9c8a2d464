package cli

import (
	"bytes"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/getmockd/sensormock/pkg/cliconfig"
)

// isolateConfig points every config layer at empty temporary locations.
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(dir)
	for _, name := range []string{
		cliconfig.EnvHost, cliconfig.EnvPort, cliconfig.EnvMetricsPort,
		cliconfig.EnvDeviceID, cliconfig.EnvStreamCount, cliconfig.EnvStreamInterval,
		cliconfig.EnvMaxBodyBytes, cliconfig.EnvLogLevel, cliconfig.EnvLogFormat,
		cliconfig.EnvMQTTBroker, cliconfig.EnvMQTTTopicPrefix, cliconfig.EnvMQTTPort,
		cliconfig.EnvKafkaBrokers, cliconfig.EnvKafkaTopic, cliconfig.EnvConfig,
	} {
		t.Setenv(name, "")
	}
	return dir
}

// testCLIConfig returns a quiet loopback configuration on a free port.
func testCLIConfig() *cliconfig.CLIConfig {
	cfg := cliconfig.NewDefault()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.LogLevel = "error"
	cfg.LogFormat = "text"
	return cfg
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

// syncBuffer is a goroutine-safe bytes.Buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
