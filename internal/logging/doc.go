// Package logging assembles structured slog loggers and formatting helpers used
// across animeta.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so provider and facade code can
// tag log lines with operation names, provider names, and correlation IDs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
