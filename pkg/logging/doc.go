// Package logging provides structured logging configuration for sensormock.
//
// This package wraps log/slog so every component logs the same way. Three
// output formats are supported:
//
//   - text: slog's key=value handler, the default
//   - json: slog's JSON handler, for log collectors
//   - console: a colourised handler for operators watching a terminal
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatConsole,
//	})
//
//	logger.Info("stream started", "session", id)
//
// # Access log
//
// Request lines are not written through slog. AccessLogFormatter renders the
// classic "[YYYY-MM-DD HH:MM:SS] "GET /stream HTTP/1.1" 200 512" line and is
// meant to be plugged into gorilla/handlers.CustomLoggingHandler.
//
// # Integration
//
// Components accept a *slog.Logger through an option or setter and fall back
// to Nop() when none is given.
package logging
