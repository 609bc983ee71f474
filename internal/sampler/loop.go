// Package sampler implements the sampling loop: read the clock, query the
// metrics source, append one row to the sink, sleep, repeat.
package sampler

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/perflog/internal/errors"
	"github.com/agbru/perflog/internal/logging"
	"github.com/agbru/perflog/internal/metrics"
	"github.com/agbru/perflog/internal/sink"
)

const tracerName = "github.com/agbru/perflog/internal/sampler"

// Options configures a Loop.
type Options struct {
	// Interval is the spacing between ticks. Must be positive.
	Interval time.Duration
	// Limit bounds the run time. Zero means run until canceled.
	Limit time.Duration
	// MaxFailures stops the run after that many consecutive failed ticks.
	// Zero retries forever.
	MaxFailures int
	// MetricsFile, when set, receives a Prometheus textfile after each tick.
	MetricsFile string
}

// Result summarizes a finished run.
type Result struct {
	Rows     int
	Failures int
	Started  time.Time
	Stopped  time.Time
	Reason   StopReason
}

// Elapsed returns the wall time between start and stop.
func (r Result) Elapsed() time.Duration { return r.Stopped.Sub(r.Started) }

// Option customizes a Loop.
type Option func(*Loop)

// WithClock replaces the system clock.
func WithClock(c Clock) Option { return func(l *Loop) { l.clock = c } }

// WithReporter sets the operator-facing event receiver.
func WithReporter(r Reporter) Option { return func(l *Loop) { l.reporter = r } }

// WithLogger sets the diagnostic logger.
func WithLogger(lg logging.Logger) Option { return func(l *Loop) { l.logger = lg } }

// WithStats sets the metrics the loop records into.
func WithStats(s *metrics.RunStats) Option { return func(l *Loop) { l.stats = s } }

// WithTracer sets the tracer used for tick spans.
func WithTracer(t trace.Tracer) Option { return func(l *Loop) { l.tracer = t } }

// Loop owns the state of one sampling run. It is not reusable.
type Loop struct {
	opts     Options
	source   Source
	sink     Sink
	clock    Clock
	reporter Reporter
	logger   logging.Logger
	stats    *metrics.RunStats
	tracer   trace.Tracer
	state    atomic.Int32
}

// New validates opts and builds a Loop in StateInitializing. The sink must
// already be open.
func New(opts Options, src Source, snk Sink, options ...Option) (*Loop, error) {
	if opts.Interval <= 0 {
		return nil, apperrors.NewConfigError("interval must be positive, got %s", opts.Interval)
	}
	if opts.Limit < 0 {
		return nil, apperrors.NewConfigError("duration limit must not be negative, got %s", opts.Limit)
	}
	if opts.MaxFailures < 0 {
		return nil, apperrors.NewConfigError("max failures must not be negative, got %d", opts.MaxFailures)
	}
	if src == nil || snk == nil {
		return nil, apperrors.NewConfigError("sampler needs both a source and a sink")
	}

	l := &Loop{
		opts:     opts,
		source:   src,
		sink:     snk,
		clock:    RealClock{},
		reporter: NullReporter{},
		logger:   logging.Nop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, o := range options {
		o(l)
	}
	if l.stats == nil {
		l.stats = metrics.NewRunStats()
	}
	return l, nil
}

// State returns the current lifecycle phase. Safe for concurrent use.
func (l *Loop) State() State { return State(l.state.Load()) }

// Stats returns the metrics the loop records into.
func (l *Loop) Stats() *metrics.RunStats { return l.stats }

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
	l.logger.Debug("sampler state", logging.String("state", s.String()))
}

// Run samples until the limit elapses, ctx is canceled, the sink fails or
// too many consecutive ticks fail. Interruption is not an error: it returns
// a Result with StopInterrupted and a nil error. A sink failure returns the
// apperrors.SinkError unchanged.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	res := Result{Started: l.clock.Now()}
	l.setState(StateSampling)
	l.reporter.ReportStart(Start{
		LogFile:       l.sink.Path(),
		Interval:      l.opts.Interval,
		Limit:         l.opts.Limit,
		HeaderWritten: l.sink.HeaderWritten(),
		Time:          res.Started,
	})
	l.logger.Debug("sampling started",
		logging.String("file", l.sink.Path()),
		logging.Duration("interval", l.opts.Interval),
		logging.Duration("limit", l.opts.Limit))

	var runErr error
	consecutive := 0
	for res.Reason == 0 {
		if ctx.Err() != nil {
			res.Reason = StopInterrupted
			break
		}

		now := l.clock.Now()
		row, err := l.tick(ctx, now)
		switch {
		case err == nil:
			consecutive = 0
			res.Rows++
			l.stats.RecordSample(row.Time, row.CPUPercent, row.MemoryPercent)
			l.reporter.ReportSample(row)
		case apperrors.IsFatal(err):
			res.Reason = StopSinkFailed
			runErr = err
			l.logger.Debug("sink failed", logging.Err(err))
		case ctx.Err() != nil:
			// A read cut short by cancellation is not a collection failure.
			res.Reason = StopInterrupted
		case apperrors.IsTransient(err):
			consecutive++
			res.Failures++
			l.stats.RecordFailure()
			l.reporter.ReportSampleError(err)
			l.logger.Debug("tick skipped", logging.Err(err), logging.Int("consecutive", consecutive))
			if l.opts.MaxFailures > 0 && consecutive >= l.opts.MaxFailures {
				res.Reason = StopTooManyFailures
				runErr = apperrors.WrapError(err, "giving up after %d consecutive collection failures", consecutive)
			}
		}
		l.exportMetrics()
		if res.Reason != 0 {
			break
		}

		if l.opts.Limit > 0 && now.Sub(res.Started) >= l.opts.Limit {
			res.Reason = StopDurationReached
			break
		}
		if err := l.clock.Sleep(ctx, l.opts.Interval); err != nil {
			res.Reason = StopInterrupted
		}
	}

	if res.Reason == StopInterrupted {
		l.setState(StateDraining)
	}
	res.Stopped = l.clock.Now()
	l.setState(StateTerminated)
	l.logger.Debug("sampling stopped",
		logging.String("reason", res.Reason.String()),
		logging.Int("rows", res.Rows),
		logging.Int("failures", res.Failures))
	l.reporter.ReportStop(res)
	return res, runErr
}

// tick performs one collection and append inside a trace span. CPU is read
// before memory. Nothing is written unless both reads succeed. Every error
// it returns is either an apperrors.SampleError or an apperrors.SinkError.
func (l *Loop) tick(ctx context.Context, now time.Time) (sink.Row, error) {
	ctx, span := l.tracer.Start(ctx, "sampler.tick", trace.WithTimestamp(now))
	defer span.End()

	cpuPercent, err := l.source.CPUPercent(ctx)
	if err != nil {
		return sink.Row{}, failSpan(span, asSampleError("cpu", err))
	}
	memPercent, err := l.source.MemoryPercent(ctx)
	if err != nil {
		return sink.Row{}, failSpan(span, asSampleError("memory", err))
	}

	row := sink.Row{Time: now, CPUPercent: cpuPercent, MemoryPercent: memPercent}
	if err := l.sink.Append(row); err != nil {
		return sink.Row{}, failSpan(span, l.asSinkError(err))
	}

	span.SetAttributes(
		attribute.Float64("perflog.cpu_percent", cpuPercent),
		attribute.Float64("perflog.memory_percent", memPercent),
	)
	span.SetStatus(codes.Ok, "")
	return row, nil
}

// asSampleError classifies a source failure as transient unless the source
// already did.
func asSampleError(metric string, err error) error {
	if apperrors.IsTransient(err) {
		return err
	}
	return apperrors.SampleError{Metric: metric, Cause: err}
}

// asSinkError classifies an append failure as fatal unless the sink already did.
func (l *Loop) asSinkError(err error) error {
	if apperrors.IsFatal(err) {
		return err
	}
	return apperrors.SinkError{Op: "write", Path: l.sink.Path(), Cause: err}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Bool("perflog.fatal", apperrors.IsFatal(err)))
	return err
}

func (l *Loop) exportMetrics() {
	if l.opts.MetricsFile == "" {
		return
	}
	if err := l.stats.WriteTextfile(l.opts.MetricsFile); err != nil {
		l.logger.Warn("metrics textfile not written",
			logging.String("path", l.opts.MetricsFile), logging.Err(err))
	}
}
