package sampler

import (
	"context"
	"time"

	"github.com/agbru/perflog/internal/sink"
)

//go:generate mockgen -destination=mocks/mock_sampler.go -package=mocks github.com/agbru/perflog/internal/sampler Source,Sink

// Source returns instantaneous host utilization. Errors are expected to be
// apperrors.SampleError values and are treated as transient.
type Source interface {
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
}

// Sink is the durable destination for rows. Any Append error is fatal.
type Sink interface {
	Append(r sink.Row) error
	Path() string
	HeaderWritten() bool
}

// Clock abstracts wall-clock reads and the inter-tick sleep.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, in which case it returns
	// ctx.Err().
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the system clock.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time { return time.Now() }

// Sleep waits for d using a timer so that cancellation is observed at once.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start describes a run as it begins.
type Start struct {
	LogFile       string
	Interval      time.Duration
	Limit         time.Duration // zero means no limit
	HeaderWritten bool
	Time          time.Time
}

// Reporter receives operator-facing events from the loop. Calls are made
// synchronously from the loop goroutine.
type Reporter interface {
	ReportStart(s Start)
	ReportSample(r sink.Row)
	ReportSampleError(err error)
	ReportStop(res Result)
}

// NullReporter discards every event.
type NullReporter struct{}

func (NullReporter) ReportStart(Start)       {}
func (NullReporter) ReportSample(sink.Row)   {}
func (NullReporter) ReportSampleError(error) {}
func (NullReporter) ReportStop(Result)       {}
