// Package logging assembles structured slog loggers and formatting helpers used
// across comicgen.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so the build pipeline can tag every line of a
// run with its run ID and component. Warnings about skipped inputs go through
// WarnWithContext so each one carries an event type, a hint and its impact.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
