// Package logging assembles the structured slog loggers used across echo.
//
// It owns level and format plumbing (console output on terminals, JSON
// otherwise) and provides a no-op logger for tests and wiring code that
// cannot fail. Prefer these constructors over hand-rolled slog setup so every
// component emits records with the same shape.
package logging
