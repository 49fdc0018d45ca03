package pkgconfig

import "time"

// Config reads typed configuration values by dotted key.
type Config interface {
	GetString(key string) string
	GetInt(key string) int64
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	Close() error
}
