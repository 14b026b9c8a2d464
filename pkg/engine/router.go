package engine

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/getmockd/sensormock/pkg/httputil"
	"github.com/getmockd/sensormock/pkg/logging"
)

// buildHandler assembles the route table and wraps it with panic recovery
// and, when configured, access logging.
func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()
	// Unclean paths such as //data must 404 rather than redirect.
	r.SkipClean(true)
	r.Use(s.metrics.Middleware)

	r.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/data", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/data", s.handleIngest).Methods(http.MethodPost)
	r.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)

	// mux middleware only runs on matched routes.
	notFound := s.metrics.Middleware(httputil.NotFoundHandler())
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	var h http.Handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: s.log}),
	)(r)

	if s.accessLog != nil {
		h = handlers.CustomLoggingHandler(s.accessLog, h, logging.AccessLogFormatter)
	}
	return h
}

// recoveryLogger adapts slog to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	log *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.log.Error("handler panic", "panic", fmt.Sprint(v...))
}
