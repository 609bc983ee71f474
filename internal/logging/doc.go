// Package logging provides a unified logging interface for perflog.
// It abstracts the underlying logging implementation (zerolog by default, the
// standard library logger as a fallback) so components log consistently and
// tests can capture output.
package logging
