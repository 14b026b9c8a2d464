package netutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalIPVia_InvalidProbeFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Fallback, LocalIPVia("not-an-address"))
}

func TestLocalIPVia_Loopback(t *testing.T) {
	t.Parallel()

	got := LocalIPVia("127.0.0.1:9")
	assert.Equal(t, "127.0.0.1", got)
}

func TestLocalIP_NeverEmpty(t *testing.T) {
	t.Parallel()

	got := LocalIP()
	assert.NotEmpty(t, got)
	if got != Fallback {
		assert.NotNil(t, net.ParseIP(got), "expected an IP, got %q", got)
	}
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, "localhost:8080"},
		{"0.0.0.0", 8080, "localhost:8080"},
		{"::", 9000, "localhost:9000"},
		{"192.168.1.10", 8080, "192.168.1.10:8080"},
		{"fe80::1", 8080, "[fe80::1]:8080"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HostPort(tt.host, tt.port))
	}
}
