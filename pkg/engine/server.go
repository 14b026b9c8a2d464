package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/sensormock/pkg/config"
	"github.com/getmockd/sensormock/pkg/logging"
	"github.com/getmockd/sensormock/pkg/metrics"
	"github.com/getmockd/sensormock/pkg/mirror"
	"github.com/getmockd/sensormock/pkg/sensor"
)

// ErrServerRunning is returned by Start on a running server.
var ErrServerRunning = errors.New("server is already running")

// ReadingMirror receives a copy of every streamed reading.
type ReadingMirror interface {
	Enqueue(msg mirror.Message) error
}

// Server is the sensormock HTTP server.
type Server struct {
	cfg       *config.ServerConfiguration
	log       *slog.Logger
	gen       *sensor.Generator
	metrics   *metrics.Metrics
	mirror    ReadingMirror
	accessLog io.Writer

	handler      http.Handler
	adminHandler http.Handler

	mu          sync.RWMutex
	running     bool
	startTime   time.Time
	httpServer  *http.Server
	adminServer *http.Server
	addr        string
	adminAddr   string
	cancelBase  context.CancelFunc
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMirror republishes every streamed reading through m.
func WithMirror(m ReadingMirror) ServerOption {
	return func(s *Server) {
		s.mirror = m
	}
}

// WithMetrics replaces the server's metrics. nil disables them.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithAccessLog writes one line per request to w. nil disables access logging.
func WithAccessLog(w io.Writer) ServerOption {
	return func(s *Server) {
		s.accessLog = w
	}
}

// WithGenerator sets the reading generator, e.g. a seeded one in tests.
func WithGenerator(g *sensor.Generator) ServerOption {
	return func(s *Server) {
		if g != nil {
			s.gen = g
		}
	}
}

// NewServer creates a new Server with the given configuration.
// A nil configuration uses config.DefaultServerConfiguration; zero fields of
// a non-nil one are defaulted on a copy.
func NewServer(cfg *config.ServerConfiguration, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.DefaultServerConfiguration()
	} else {
		c := *cfg
		c.ApplyDefaults()
		cfg = &c
	}

	s := &Server{
		cfg:     cfg,
		log:     logging.Nop(),
		gen:     sensor.NewGenerator(),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handler = s.buildHandler()
	s.adminHandler = s.buildAdminHandler()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// AdminHandler returns the handler served on the metrics port.
func (s *Server) AdminHandler() http.Handler {
	return s.adminHandler
}

// Metrics returns the server's metrics, or nil when disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfiguration {
	return s.cfg
}

// Start binds the listeners and begins serving in the background.
// A bind failure is returned before anything is served.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerRunning
	}

	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	var adminLn net.Listener
	if adminAddr := s.cfg.MetricsAddr(); adminAddr != "" {
		adminLn, err = net.Listen("tcp", adminAddr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to listen on %s: %w", adminAddr, err)
		}
	}

	// Every request context derives from baseCtx, so cancelling it ends
	// in-flight streams before Shutdown waits for them.
	baseCtx, cancel := context.WithCancel(context.Background())
	s.cancelBase = cancel
	errorLog := slog.NewLogLogger(s.log.Handler(), slog.LevelWarn)

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ErrorLog:          errorLog,
	}
	s.addr = ln.Addr().String()
	go s.serve(s.httpServer, ln, "http")

	if adminLn != nil {
		s.adminServer = &http.Server{
			Handler:           s.adminHandler,
			ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
			ErrorLog:          errorLog,
		}
		s.adminAddr = adminLn.Addr().String()
		go s.serve(s.adminServer, adminLn, "admin")
	}

	s.running = true
	s.startTime = time.Now()
	s.log.Info("server started", "addr", s.addr, "admin_addr", s.adminAddr)
	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener, name string) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("server error", "listener", name, "error", err)
	}
}

// Stop aborts in-flight streams and shuts the listeners down. It is safe to
// call more than once.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancelBase()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin shutdown: %w", err))
		}
	}

	s.running = false
	s.httpServer = nil
	s.adminServer = nil
	s.log.Info("server stopped")

	return errors.Join(errs...)
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound HTTP address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// AdminAddr returns the bound admin address, or "" when disabled.
func (s *Server) AdminAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminAddr
}

// Uptime returns the server uptime in seconds.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}
