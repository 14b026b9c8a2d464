package engine

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/getmockd/sensormock/pkg/httputil"
	"github.com/getmockd/sensormock/pkg/metrics"
)

// InvalidJSONMessage is the body of every rejected ingest.
const InvalidJSONMessage = "Invalid JSON data"

var (
	errTrailingData = errors.New("unexpected data after JSON value")
	errInvalidUTF8  = errors.New("JSON value is not valid UTF-8")
)

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	httputil.AllowAnyOrigin(w)
	httputil.WriteJSONIndent(w, http.StatusOK, s.gen.Snapshot(s.cfg.DeviceID))
}

// handleIngest accepts any single JSON value and echoes it back. Oversized,
// empty and malformed bodies are all answered with 400.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	data, err := decodeJSON(body)
	if err != nil {
		s.metrics.Ingest(metrics.IngestRejected)
		s.log.Info("rejected ingest", "remote", r.RemoteAddr, "error", err)
		httputil.WriteBadRequest(w, InvalidJSONMessage)
		return
	}

	resp := s.gen.Ingest(data)
	s.metrics.Ingest(metrics.IngestAccepted)
	s.log.Info("received data", "timestamp", resp.Timestamp, "remote", r.RemoteAddr, "data", string(data))

	httputil.AllowAnyOrigin(w)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// decodeJSON reads exactly one JSON value and keeps it raw, so key order and
// number precision survive the echo.
func decodeJSON(r io.Reader) (json.RawMessage, error) {
	dec := json.NewDecoder(r)

	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return nil, err
	}
	// encoding/json lets invalid UTF-8 through inside strings.
	if !utf8.Valid(v) {
		return nil, errInvalidUTF8
	}
	return v, nil
}
