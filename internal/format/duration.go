// Package format holds small, pure helpers that turn values into display
// strings for the cli and tui packages.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a duration for display.
// It shows microseconds below a millisecond, milliseconds below a second,
// and whole seconds otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Second).String()
}

// FormatMinutes renders d as a whole number of minutes, rounding down.
func FormatMinutes(d time.Duration) string {
	m := int64(d / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}

// FormatSeconds renders d as a whole number of seconds, rounding down.
func FormatSeconds(d time.Duration) string {
	s := int64(d / time.Second)
	if s == 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", s)
}

// FormatPercent renders a utilization value with two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
