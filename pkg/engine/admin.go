package engine

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/getmockd/sensormock/pkg/httputil"
)

// HealthResponse is returned by GET /health on the admin listener.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int    `json:"uptime"`
}

func (s *Server) buildAdminHandler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.NotFoundHandler = httputil.NotFoundHandler()
	r.MethodNotAllowedHandler = httputil.NotFoundHandler()
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Uptime: s.Uptime()})
}
