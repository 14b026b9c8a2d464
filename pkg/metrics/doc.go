// Package metrics exposes Prometheus metrics for sensormock.
//
// Every Server owns its own Metrics value backed by a private
// prometheus.Registry, so several servers can coexist in one test binary.
// All methods tolerate a nil receiver; a server built without metrics simply
// skips recording.
//
// Exposed series:
//
//	sensormock_http_requests_total{route,method,status}
//	sensormock_http_request_duration_seconds{route}
//	sensormock_stream_sessions_active
//	sensormock_stream_readings_total
//	sensormock_ingest_total{result}
//	sensormock_mirror_dropped_total
package metrics
