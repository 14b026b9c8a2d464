package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/getmockd/sensormock/internal/id"
	"github.com/getmockd/sensormock/pkg/httputil"
	"github.com/getmockd/sensormock/pkg/mirror"
)

// handleStream writes StreamCount readings as NDJSON, flushing after each
// line and pausing StreamInterval between lines. A client disconnect or
// server shutdown ends the stream early.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := id.SessionID()
	log := s.log.With("session", sessionID, "remote", r.RemoteAddr)

	h := w.Header()
	h.Set("Content-Type", httputil.ContentTypeText)
	h.Set("Cache-Control", "no-cache")
	httputil.AllowAnyOrigin(w)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)

	s.metrics.StreamOpened()
	defer s.metrics.StreamClosed()
	log.Info("stream started", "count", s.cfg.StreamCount, "interval", s.cfg.StreamInterval)

	n := s.cfg.StreamCount
	for i := range n {
		if err := ctx.Err(); err != nil {
			log.Info("stream ended", "sent", i, "error", err)
			return
		}

		reading := s.gen.Reading(i)
		line, err := json.Marshal(reading)
		if err != nil {
			log.Error("failed to encode reading", "counter", i, "error", err)
			return
		}

		if _, err := w.Write(append(line, '\n')); err != nil {
			log.Info("stream ended", "sent", i, "error", err)
			return
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			log.Info("stream ended", "sent", i, "error", err)
			return
		}
		s.metrics.ReadingSent()
		s.mirrorReading(sessionID, line)

		if i == n-1 {
			break
		}
		if err := sleepCtx(ctx, s.cfg.StreamInterval); err != nil {
			log.Info("stream ended", "sent", i+1, "error", err)
			return
		}
	}

	log.Info("stream completed", "sent", n)
}

func (s *Server) mirrorReading(sessionID string, payload []byte) {
	if s.mirror == nil {
		return
	}
	err := s.mirror.Enqueue(mirror.Message{
		Key:     sessionID,
		Payload: payload,
		Time:    time.Now(),
	})
	if err != nil {
		s.log.Debug("reading not mirrored", "session", sessionID, "error", err)
	}
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
