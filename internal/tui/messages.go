package tui

import (
	"time"

	"github.com/agbru/perflog/internal/sampler"
	"github.com/agbru/perflog/internal/sink"
)

// StartMsg carries the run parameters when sampling begins.
type StartMsg struct{ Start sampler.Start }

// SampleMsg carries a row that was written to the log file.
type SampleMsg struct{ Row sink.Row }

// SampleErrorMsg carries a recoverable collection error.
type SampleErrorMsg struct {
	Err  error
	Time time.Time
}

// StopMsg tells the dashboard the loop has finished.
type StopMsg struct{ Result sampler.Result }

// TickMsg refreshes the elapsed timer.
type TickMsg time.Time
