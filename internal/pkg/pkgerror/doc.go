// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// It keeps error handling consistent by providing sentinel errors for
// errors.Is checks and a structured Error carrying a user-facing message, a
// high-level type, and a stable code that the HTTP edge maps to a status.
package pkgerror
