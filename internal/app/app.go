// Package app wires configuration, the metrics source, the CSV sink and the
// sampling loop into a runnable command, and maps the outcome to an exit code.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/agbru/perflog/internal/cli"
	"github.com/agbru/perflog/internal/config"
	apperrors "github.com/agbru/perflog/internal/errors"
	"github.com/agbru/perflog/internal/logging"
	"github.com/agbru/perflog/internal/metrics"
	"github.com/agbru/perflog/internal/sampler"
	"github.com/agbru/perflog/internal/sink"
	"github.com/agbru/perflog/internal/sysmon"
	"github.com/agbru/perflog/internal/tui"
	"github.com/agbru/perflog/internal/ui"
)

// Application represents the perflog application instance.
type Application struct {
	Config    config.AppConfig
	Source    sampler.Source
	ErrWriter io.Writer
	Logger    logging.Logger

	clockOpts []sampler.Option
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the gopsutil-backed metrics source.
func WithSource(src sampler.Source) AppOption {
	return func(a *Application) { a.Source = src }
}

// WithLogger replaces the console logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithClock replaces the system clock of the sampling loop.
func WithClock(c sampler.Clock) AppOption {
	return func(a *Application) { a.clockOpts = append(a.clockOpts, sampler.WithClock(c)) }
}

// primer is implemented by sources that need a warm-up reading.
type primer interface {
	Prime(ctx context.Context) error
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name. Flag syntax errors are returned as ConfigErrors;
// flag.ErrHelp is returned unchanged.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "perflog"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		var ce apperrors.ConfigError
		if IsHelpError(err) || errors.As(err, &ce) {
			return nil, err
		}
		return nil, apperrors.NewConfigError("%v", err)
	}

	app := &Application{Config: cfg, ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Source == nil {
		app.Source = sysmon.New()
	}
	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, "perflog", cfg.NoColor)
	}
	return app, nil
}

// Run executes the sampling run and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	logging.SetLevel(a.Config.Verbose, a.Config.Quiet)
	// Escape codes only make sense on a terminal.
	ui.InitTheme(a.Config.NoColor || !isInteractive(out))

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if p, ok := a.Source.(primer); ok {
		if err := p.Prime(ctx); err != nil {
			a.Logger.Warn("cpu priming failed, first sample may cover a long window", logging.Err(err))
		}
	}

	// A stop during priming leaves nothing to drain.
	if ctx.Err() != nil {
		cli.DisplayStop(out, sampler.Result{Reason: sampler.StopInterrupted}, 0, 0)
		return apperrors.ExitErrorCanceled
	}

	snk, err := sink.Open(a.Config.LogFile)
	if err != nil {
		return a.fail(err)
	}

	res, runErr := a.sample(ctx, out, snk)

	if closeErr := snk.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		a.Logger.Debug("run ended with error",
			logging.String("reason", res.Reason.String()), logging.Err(runErr))
		if res.Reason != sampler.StopTooManyFailures {
			return a.fail(runErr)
		}
	}
	return apperrors.ExitCodeFor(runErr)
}

// sample builds the loop for the selected output mode and runs it.
func (a *Application) sample(ctx context.Context, out io.Writer, snk *sink.CSVSink) (sampler.Result, error) {
	opts := sampler.Options{
		Interval:    a.Config.Interval(),
		Limit:       a.Config.DurationLimit(),
		MaxFailures: a.Config.MaxFailures,
		MetricsFile: a.Config.MetricsFile,
	}
	stats := metrics.NewRunStats()
	defer func() {
		sum := stats.Summary()
		a.Logger.Debug("run metrics", logging.Uint64("rows", sum.Rows), logging.Uint64("failures", sum.Failures))
	}()
	loopOpts := append([]sampler.Option{sampler.WithStats(stats)}, a.clockOpts...)

	if a.Config.TUI {
		rep := tui.NewReporter()
		// Log lines would tear the alternate screen.
		loopOpts = append(loopOpts, sampler.WithReporter(rep), sampler.WithLogger(logging.Nop()))
		loop, err := sampler.New(opts, a.Source, snk, loopOpts...)
		if err != nil {
			return sampler.Result{}, err
		}
		res, err := tui.Run(ctx, rep, Version, loop.Run)
		cli.DisplayStop(out, res, opts.Limit, opts.MaxFailures)
		cli.DisplaySummary(out, res)
		return res, err
	}

	rep := cli.NewReporter(out, a.Config.Quiet, isInteractive(out))
	loopOpts = append(loopOpts, sampler.WithReporter(rep), sampler.WithLogger(a.Logger))
	loop, err := sampler.New(opts, a.Source, snk, loopOpts...)
	if err != nil {
		return sampler.Result{}, err
	}
	return loop.Run(ctx)
}

// fail reports a run-ending error on ErrWriter and returns its exit code.
func (a *Application) fail(err error) int {
	cli.DisplayFatalError(a.ErrWriter, err)
	return apperrors.ExitCodeFor(err)
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ReportStartupError prints an error returned by New and returns the exit
// code for it. Help requests exit successfully without extra output.
func ReportStartupError(w io.Writer, err error) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return apperrors.ExitCodeFor(err)
}
