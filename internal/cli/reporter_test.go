package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/perflog/internal/sampler"
	"github.com/agbru/perflog/internal/sink"
)

func TestReporter_FullRun(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	r.ReportStart(sampler.Start{LogFile: "s.csv", Interval: 2 * time.Second, HeaderWritten: true})
	r.ReportSample(sink.Row{Time: now, CPUPercent: 1, MemoryPercent: 2})
	r.ReportSampleError(errors.New("flaky"))
	r.ReportSample(sink.Row{Time: now.Add(4 * time.Second), CPUPercent: 3, MemoryPercent: 4})
	r.ReportStop(sampler.Result{Rows: 2, Failures: 1, Reason: sampler.StopInterrupted, Started: now, Stopped: now.Add(5 * time.Second)})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Starting system performance monitoring. Data will be logged to 's.csv'.",
		"Monitoring interval: 2 seconds.",
		"Monitoring will run indefinitely. Press Ctrl+C to stop.",
		"CSV header written.",
		"Logged: 2025-06-01 12:00:00 - CPU: 1.00% | Memory: 2.00%",
		"An error occurred during data collection: flaky",
		"Logged: 2025-06-01 12:00:04 - CPU: 3.00% | Memory: 4.00%",
		"Monitoring stopped by user (Ctrl+C).",
		"Rows written: 2, failed ticks: 1, elapsed: 5s",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReporter_QuietSuppressesRowsOnly(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	r := NewReporter(&buf, true, true)

	r.ReportSample(sink.Row{Time: time.Now(), CPUPercent: 1, MemoryPercent: 2})
	r.ReportSampleError(errors.New("still shown"))

	out := buf.String()
	if strings.Contains(out, "Logged:") {
		t.Errorf("quiet mode should hide row lines, got:\n%s", out)
	}
	if !strings.Contains(out, "still shown") {
		t.Errorf("quiet mode should still show errors, got:\n%s", out)
	}
	if r.spin != nil {
		t.Error("quiet mode should not create a spinner")
	}
}

func TestReporter_CountsConsecutiveFailures(t *testing.T) {
	withoutColors(t)
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false)

	r.ReportStart(sampler.Start{Interval: time.Second})
	r.ReportSampleError(errors.New("a"))
	r.ReportSample(sink.Row{Time: time.Now()})
	r.ReportSampleError(errors.New("b"))
	r.ReportSampleError(errors.New("c"))
	r.ReportStop(sampler.Result{Reason: sampler.StopTooManyFailures})

	if !strings.Contains(buf.String(), "aborted after 2 consecutive collection failures") {
		t.Errorf("expected streak of 2 in stop message, got:\n%s", buf.String())
	}
}

func TestReporter_SpinnerStoppedBeforeEachLine(t *testing.T) {
	withoutColors(t)
	mockS := useMockSpinner(t)
	var buf bytes.Buffer
	r := NewReporter(&buf, false, true)

	if mockS.suffix != WaitingSuffix {
		t.Errorf("spinner suffix = %q, want %q", mockS.suffix, WaitingSuffix)
	}

	r.ReportStart(sampler.Start{Interval: time.Second})
	if mockS.starts != 0 {
		t.Error("spinner should not run before the first tick")
	}

	r.ReportSample(sink.Row{Time: time.Now()})
	r.ReportSampleError(errors.New("x"))
	r.ReportSample(sink.Row{Time: time.Now()})
	r.ReportStop(sampler.Result{Reason: sampler.StopInterrupted})

	if mockS.starts != 3 || mockS.stops != 3 {
		t.Errorf("starts=%d stops=%d, want 3 and 3", mockS.starts, mockS.stops)
	}
}
