// Package sensor provides the synthetic telemetry model served by sensormock.
//
// Every value is produced on demand by a Generator and lives only for the
// request that asked for it:
//
//   - SensorReading: one line of the /stream NDJSON feed
//   - SensorSnapshot: the single object returned by GET /data
//   - IngestResponse: the echo envelope returned by POST /data
//
// A Generator is safe for concurrent use. Stream sessions on different
// connections share one Generator; each draw takes a short lock on the
// underlying PCG source.
package sensor
