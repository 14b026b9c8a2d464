// Package config defines the runtime configuration of the sensormock server.
//
// ServerConfiguration is the fully resolved set of values the engine runs
// with. It is built by the CLI from pkg/cliconfig (flags, environment, rc
// files and defaults) and checked with Validate before the server starts.
// Validation failures are reported as *ValidationError naming the offending
// field.
package config
