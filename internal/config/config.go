// Package config defines the perflog runtime configuration and parses it from
// command-line flags and PERFLOG_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"time"

	apperrors "github.com/agbru/perflog/internal/errors"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "PERFLOG_"

// Defaults used when neither a flag nor an environment variable is given.
const (
	DefaultIntervalSeconds = 2
	DefaultLogFile         = "my_system_stats.csv"
)

// Largest values whose conversion to time.Duration does not overflow.
const (
	MaxIntervalSeconds = math.MaxInt64 / int64(time.Second)
	MaxDurationMinutes = math.MaxInt64 / int64(time.Minute)
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// IntervalSeconds is the spacing between two ticks, in whole seconds.
	IntervalSeconds int
	// LogFile is the CSV file samples are appended to.
	LogFile string
	// DurationMinutes caps the total run time. Zero means run until stopped.
	DurationMinutes int
	// MaxFailures stops the run after that many consecutive collection
	// failures. Zero retries forever.
	MaxFailures int
	// MetricsFile, when set, receives a Prometheus textfile export after each tick.
	MetricsFile string
	// TUI enables the live dashboard instead of line output.
	TUI bool
	// Verbose enables debug logging.
	Verbose bool
	// Quiet suppresses per-tick lines.
	Quiet bool
	// NoColor disables ANSI colors.
	NoColor bool
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// Interval returns the tick spacing as a duration.
func (c AppConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// DurationLimit returns the run cap, or zero when the run is unbounded.
func (c AppConfig) DurationLimit() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// Validate checks the semantic validity of the configuration.
//
// Returns:
//   - error: A ConfigError describing the first invalid field, or nil.
func (c AppConfig) Validate() error {
	if c.IntervalSeconds < 1 {
		return apperrors.NewConfigError("interval must be at least 1 second, got %d", c.IntervalSeconds)
	}
	if c.DurationMinutes < 0 {
		return apperrors.NewConfigError("duration must be 0 (run indefinitely) or a positive number of minutes, got %d", c.DurationMinutes)
	}
	if int64(c.IntervalSeconds) > MaxIntervalSeconds {
		return apperrors.NewConfigError("interval must be at most %d seconds, got %d", MaxIntervalSeconds, c.IntervalSeconds)
	}
	if int64(c.DurationMinutes) > MaxDurationMinutes {
		return apperrors.NewConfigError("duration must be at most %d minutes, got %d", MaxDurationMinutes, c.DurationMinutes)
	}
	if c.LogFile == "" {
		return apperrors.NewConfigError("log file path must not be empty")
	}
	if c.MaxFailures < 0 {
		return apperrors.NewConfigError("max-failures must be 0 (unlimited) or positive, got %d", c.MaxFailures)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("--quiet and --tui cannot be used together")
	}
	return nil
}

// ParseConfig parses command-line arguments, applies environment overrides for
// flags that were not set explicitly, and validates the result.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: The command-line arguments, without the program name.
//   - errorOutput: Where usage and parse errors are written.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, a ConfigError otherwise.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)

	config := AppConfig{}
	fs.IntVar(&config.IntervalSeconds, "interval", DefaultIntervalSeconds, "Seconds between two samples.")
	fs.IntVar(&config.IntervalSeconds, "i", DefaultIntervalSeconds, "Shorthand for --interval.")
	fs.StringVar(&config.LogFile, "log-file", DefaultLogFile, "CSV file to append samples to (created if absent).")
	fs.StringVar(&config.LogFile, "o", DefaultLogFile, "Shorthand for --log-file.")
	fs.IntVar(&config.DurationMinutes, "duration", 0, "Stop after this many minutes (0 runs until interrupted).")
	fs.IntVar(&config.DurationMinutes, "d", 0, "Shorthand for --duration.")
	fs.IntVar(&config.MaxFailures, "max-failures", 0, "Give up after this many consecutive collection failures (0 never gives up).")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format to this path after each sample.")
	fs.BoolVar(&config.TUI, "tui", false, "Show a live dashboard while logging.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Only print start, stop and error lines.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also honors NO_COLOR).")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	fs.Usage = func() {
		fmt.Fprintf(errorOutput, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errorOutput, "Samples CPU and memory usage and appends them to a CSV file.\n\n")
		fmt.Fprintf(errorOutput, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errorOutput, "\nEnvironment variables %s<KEY> override defaults for flags not given on the command line.\n", EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %v", fs.Args())
	}

	applyEnvOverrides(&config, fs)

	if config.ShowVersion {
		return config, nil
	}
	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}
