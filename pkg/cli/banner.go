package cli

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/getmockd/sensormock/pkg/cli/internal/output"
	"github.com/getmockd/sensormock/pkg/netutil"
)

const bannerWidth = 60

// bannerInfo is what the startup banner reports.
type bannerInfo struct {
	BindAddr   string
	Port       int
	LocalIP    string
	AdminAddr  string
	MQTTURL    string
	MirrorTo   []string
	StreamSize int
}

func newBannerInfo(sctx *serveContext) bannerInfo {
	info := bannerInfo{
		BindAddr:   sctx.server.Addr(),
		Port:       portOf(sctx.server.Addr()),
		LocalIP:    netutil.LocalIP(),
		AdminAddr:  sctx.server.AdminAddr(),
		StreamSize: sctx.cfg.StreamCount,
	}
	if sctx.broker != nil {
		info.MQTTURL = sctx.broker.URL()
	}
	if sctx.dispatcher != nil {
		info.MirrorTo = sctx.dispatcher.Sinks()
	}
	return info
}

// portOf returns the port of a host:port address, or 0.
func portOf(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, _ := strconv.Atoi(p)
	return port
}

func printBanner(w io.Writer, info bannerInfo) {
	network := "http://" + net.JoinHostPort(info.LocalIP, strconv.Itoa(info.Port))

	fmt.Fprintln(w, output.Rule(bannerWidth))
	fmt.Fprintln(w, "sensormock telemetry device")
	fmt.Fprintln(w, output.Rule(bannerWidth))
	fmt.Fprintf(w, "Server running on %s:\n", info.BindAddr)
	fmt.Fprintf(w, "  Local: http://%s\n", netutil.HostPort("localhost", info.Port))
	fmt.Fprintf(w, "  Network: %s\n", network)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintf(w, "  Stream: %s/stream (%d readings)\n", network, info.StreamSize)
	fmt.Fprintf(w, "  Data: %s/data\n", network)
	if info.AdminAddr != "" {
		fmt.Fprintf(w, "  Metrics: http://%s/metrics\n", netutil.HostPort(hostOf(info.AdminAddr), portOf(info.AdminAddr)))
	}
	if info.MQTTURL != "" {
		fmt.Fprintf(w, "  MQTT broker: %s\n", info.MQTTURL)
	}
	if len(info.MirrorTo) > 0 {
		fmt.Fprintf(w, "  Mirroring readings to: %s\n", strings.Join(info.MirrorTo, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use Ctrl+C to stop the server")
	fmt.Fprintln(w, output.Rule(bannerWidth))
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return host
}
