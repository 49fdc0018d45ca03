// Package sdk declares the host capability surface the database example step
// is written against.
//
// The real datastore directory, table storage and caching subsystem live in
// the host application. This package only names the operations the step
// consumes, so the step can run against any host (or test double) that
// provides them.
package sdk
