// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Application code depends on the Config interface rather than a concrete
// library, so modules stay easy to test and do not care whether values come
// from a file, the environment, or a test stub. The shipped implementation is
// backed by Viper.
package pkgconfig
