// Package logging assembles structured slog loggers and formatting helpers used
// across vidpub.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so orchestration code can tag
// log lines with catalog entry IDs, step names and the per-command correlation
// ID. A no-op logger is provided for tests and wiring code that cannot fail.
package logging
