// Package pkguid provides helpers for generating unique identifiers.
//
// Callers depend on the small interfaces here instead of a concrete UID
// strategy: string IDs (UUIDs) for correlation and run identifiers, numeric
// IDs (Snowflake) where the host expects an integer, such as user IDs.
package pkguid
