// Package netutil resolves the addresses printed in the startup banner.
package netutil

import (
	"net"
	"strconv"
)

// DefaultProbeAddr is the public address used to pick the outbound interface.
// No packet is ever sent to it.
const DefaultProbeAddr = "8.8.8.8:80"

// Fallback is returned when the outbound address cannot be determined.
const Fallback = "localhost"

// LocalIP returns the IP address of the interface the host would use to reach
// the public internet, or Fallback if there is no usable route.
func LocalIP() string {
	return LocalIPVia(DefaultProbeAddr)
}

// LocalIPVia is LocalIP with an explicit probe address.
func LocalIPVia(probeAddr string) string {
	// UDP connect only selects a route; nothing goes on the wire.
	conn, err := net.Dial("udp4", probeAddr)
	if err != nil {
		return Fallback
	}
	defer func() { _ = conn.Close() }()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return Fallback
	}
	return addr.IP.String()
}

// HostPort joins host and port for display. An empty or wildcard host is
// rendered as "localhost".
func HostPort(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = Fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
