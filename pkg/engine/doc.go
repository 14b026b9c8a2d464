// Package engine serves the sensormock HTTP endpoints.
//
// Routes:
//
//	GET  /stream  newline-delimited JSON readings, one per interval
//	GET  /data    one pretty-printed sensor snapshot
//	GET  /        static HTML status page
//	POST /data    JSON ingest, echoed back under "received"
//
// Everything else, including a known path with the wrong method, is a plain
// text 404. Server binds its listener synchronously in Start, serves each
// connection on its own goroutine and cancels every in-flight stream on Stop.
// An optional admin listener exposes Prometheus metrics and a health probe.
package engine
