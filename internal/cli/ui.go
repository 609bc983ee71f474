package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const (
	// SpinnerRefreshRate is the animation period of the wait spinner.
	SpinnerRefreshRate = 200 * time.Millisecond
	// WaitingSuffix is shown next to the spinner between ticks.
	WaitingSuffix = " waiting for next sample"
)

// Spinner abstracts the terminal spinner shown while the loop sleeps, so
// the reporter can be tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the animation and erases the spinner line.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer, options ...spinner.Option) Spinner {
	options = append([]spinner.Option{spinner.WithWriter(out)}, options...)
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}
