// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, and recovers
// panics so background work never crashes the process silently.
package pkgroutine
