// Package cli prints the operator-facing status lines of a sampling run:
// the configuration echo, one line per logged row, recoverable collection
// errors and the stop summary. A spinner fills the wait between ticks on an
// interactive terminal.
package cli
