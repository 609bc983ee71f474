// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayStart], [DisplayStop], [DisplaySummary].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatSampleLine], [FormatSampleError], [FormatStopMessage].

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/perflog/internal/format"
	"github.com/agbru/perflog/internal/sampler"
	"github.com/agbru/perflog/internal/sink"
	"github.com/agbru/perflog/internal/ui"
)

// DisplayStart prints the run configuration and whether a header was
// written to a fresh file.
func DisplayStart(out io.Writer, s sampler.Start) {
	fmt.Fprintf(out, "Starting system performance monitoring. Data will be logged to '%s%s%s'.\n",
		ui.ColorBlue(), s.LogFile, ui.ColorReset())
	fmt.Fprintf(out, "Monitoring interval: %s.\n", format.FormatSeconds(s.Interval))
	if s.Limit > 0 {
		fmt.Fprintf(out, "Monitoring duration: %s.\n", format.FormatMinutes(s.Limit))
	} else {
		fmt.Fprintln(out, "Monitoring will run indefinitely. Press Ctrl+C to stop.")
	}
	if s.HeaderWritten {
		fmt.Fprintln(out, "CSV header written.")
	}
}

// FormatSampleLine renders one written row.
func FormatSampleLine(r sink.Row) string {
	return fmt.Sprintf("Logged: %s%s%s - CPU: %s | Memory: %s",
		ui.ColorGrey(), r.Timestamp(), ui.ColorReset(),
		format.FormatPercent(r.CPUPercent), format.FormatPercent(r.MemoryPercent))
}

// FormatSampleError renders a recoverable per-tick error.
func FormatSampleError(err error) string {
	return ui.Colorize(ui.ColorYellow(), fmt.Sprintf("An error occurred during data collection: %v", err))
}

// FormatStopMessage renders why the run ended. consecutive is the length of
// the failure streak at stop time. Sink failures return "" because they are
// reported as fatal errors by the caller.
func FormatStopMessage(res sampler.Result, limit time.Duration, consecutive int) string {
	switch res.Reason {
	case sampler.StopDurationReached:
		return ui.Colorize(ui.ColorGreen(), fmt.Sprintf("Monitoring completed after %s.", format.FormatMinutes(limit)))
	case sampler.StopInterrupted:
		return ui.Colorize(ui.ColorGreen(), "Monitoring stopped by user (Ctrl+C).")
	case sampler.StopTooManyFailures:
		return ui.Colorize(ui.ColorRed(), fmt.Sprintf("Monitoring aborted after %d consecutive collection failures.", consecutive))
	default:
		return ""
	}
}

// DisplayStop prints the stop message, if any.
func DisplayStop(out io.Writer, res sampler.Result, limit time.Duration, consecutive int) {
	if msg := FormatStopMessage(res, limit, consecutive); msg != "" {
		fmt.Fprintln(out, msg)
	}
}

// DisplaySummary prints the one-line run summary.
func DisplaySummary(out io.Writer, res sampler.Result) {
	fmt.Fprintf(out, "%sRows written: %d, failed ticks: %d, elapsed: %s%s\n",
		ui.ColorGrey(), res.Rows, res.Failures, format.FormatExecutionDuration(res.Elapsed()), ui.ColorReset())
}

// DisplayFatalError prints a run-ending error.
func DisplayFatalError(out io.Writer, err error) {
	fmt.Fprintf(out, "%sFatal error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
}
