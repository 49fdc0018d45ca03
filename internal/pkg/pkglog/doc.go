// Package pkglog configures structured logging for the application.
//
// It installs a JSON slog handler as the process default and carries a
// per-request correlation ID through the context so every log line of one
// request can be tied together.
package pkglog
