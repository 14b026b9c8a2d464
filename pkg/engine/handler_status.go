package engine

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/getmockd/sensormock/pkg/httputil"
)

//go:embed status.html
var statusPageSource string

var statusPage = template.Must(template.New("status").Parse(statusPageSource))

type statusPageData struct {
	Host        string
	DeviceID    string
	StreamCount int
	Interval    string
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := statusPage.Execute(&buf, statusPageData{
		Host:        r.Host,
		DeviceID:    s.cfg.DeviceID,
		StreamCount: s.cfg.StreamCount,
		Interval:    s.cfg.StreamInterval.String(),
	})
	if err != nil {
		s.log.Error("failed to render status page", "error", err)
		httputil.WriteText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", httputil.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
