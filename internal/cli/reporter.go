package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/perflog/internal/sampler"
	"github.com/agbru/perflog/internal/sink"
)

// Reporter prints operator status lines for a sampling run and implements
// sampler.Reporter.
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	quiet       bool
	spin        Spinner
	spinning    bool
	limit       time.Duration
	consecutive int
}

// NewReporter creates a Reporter writing to out. With quiet set, per-tick
// lines are suppressed. With interactive set, a spinner runs between ticks.
func NewReporter(out io.Writer, quiet, interactive bool) *Reporter {
	r := &Reporter{out: out, quiet: quiet}
	if interactive && !quiet {
		r.spin = newSpinner(out)
		r.spin.UpdateSuffix(WaitingSuffix)
	}
	return r
}

var _ sampler.Reporter = (*Reporter)(nil)

// ReportStart prints the run configuration.
func (r *Reporter) ReportStart(s sampler.Start) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = s.Limit
	DisplayStart(r.out, s)
}

// ReportSample prints a row line unless quiet.
func (r *Reporter) ReportSample(row sink.Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consecutive = 0
	r.stopSpinner()
	if !r.quiet {
		fmt.Fprintln(r.out, FormatSampleLine(row))
	}
	r.startSpinner()
}

// ReportSampleError prints a recoverable error. Errors are shown even in
// quiet mode.
func (r *Reporter) ReportSampleError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consecutive++
	r.stopSpinner()
	fmt.Fprintln(r.out, FormatSampleError(err))
	r.startSpinner()
}

// ReportStop prints the stop message and the summary.
func (r *Reporter) ReportStop(res sampler.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopSpinner()
	DisplayStop(r.out, res, r.limit, r.consecutive)
	DisplaySummary(r.out, res)
}

func (r *Reporter) startSpinner() {
	if r.spin == nil || r.spinning {
		return
	}
	r.spin.Start()
	r.spinning = true
}

func (r *Reporter) stopSpinner() {
	if r.spin == nil || !r.spinning {
		return
	}
	r.spin.Stop()
	r.spinning = false
}
