// Package id generates the identifiers used across sensormock.
//
// Stream sessions get a UUID (google/uuid) that tags every log line and is the
// Kafka partition key for mirrored readings. Broker clients get a short,
// prefixed random ID.
package id
