package logging

import (
	"fmt"
	"io"

	"github.com/gorilla/handlers"
)

// AccessLogTimeFormat is the timestamp prefix of an access log line.
const AccessLogTimeFormat = "2006-01-02 15:04:05"

// AccessLogFormatter writes one line per handled request:
//
//	[2024-05-01 12:30:00] "GET /data HTTP/1.1" 200 231
func AccessLogFormatter(w io.Writer, p handlers.LogFormatterParams) {
	uri := p.Request.RequestURI
	if uri == "" {
		uri = p.URL.RequestURI()
	}

	_, _ = fmt.Fprintf(w, "[%s] \"%s %s %s\" %d %d\n",
		p.TimeStamp.Format(AccessLogTimeFormat),
		p.Request.Method,
		uri,
		p.Request.Proto,
		p.StatusCode,
		p.Size,
	)
}
