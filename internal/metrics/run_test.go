package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRunStats_RecordSample(t *testing.T) {
	t.Parallel()
	s := NewRunStats()
	at := time.Unix(1_760_000_000, 0)

	s.RecordSample(at, 12.5, 48)
	s.RecordSample(at.Add(2*time.Second), 20, 50)

	if got := testutil.ToFloat64(s.rows); got != 2 {
		t.Errorf("rows_written_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.ticks.WithLabelValues("ok")); got != 2 {
		t.Errorf("ticks_total{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.cpu); got != 20 {
		t.Errorf("cpu_usage_percent = %v, want 20", got)
	}
	if got := testutil.ToFloat64(s.memory); got != 50 {
		t.Errorf("memory_usage_percent = %v, want 50", got)
	}
	if got := testutil.ToFloat64(s.lastSample); got != float64(at.Unix()+2) {
		t.Errorf("last_sample_timestamp_seconds = %v, want %d", got, at.Unix()+2)
	}
}

func TestRunStats_Summary(t *testing.T) {
	t.Parallel()
	s := NewRunStats()

	if got := s.Summary(); got != (Summary{}) {
		t.Errorf("fresh Summary() = %+v, want zero", got)
	}

	s.RecordSample(time.Now(), 1, 2)
	s.RecordFailure()
	s.RecordFailure()
	s.RecordSample(time.Now(), 3, 4)
	s.RecordSample(time.Now(), 5, 6)

	want := Summary{Rows: 3, Failures: 2}
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestRunStats_Gather(t *testing.T) {
	t.Parallel()
	s := NewRunStats()

	count, err := testutil.GatherAndCount(s.Registry())
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	// ticks{ok}, ticks{error}, rows, cpu, memory, last sample, heap.
	if count != 7 {
		t.Errorf("expected 7 series, got %d", count)
	}

	expected := `
# HELP perflog_ticks_total Sampling ticks by outcome.
# TYPE perflog_ticks_total counter
perflog_ticks_total{result="error"} 1
perflog_ticks_total{result="ok"} 0
`
	s.RecordFailure()
	if err := testutil.GatherAndCompare(s.Registry(), strings.NewReader(expected), "perflog_ticks_total"); err != nil {
		t.Error(err)
	}
}

func TestRunStats_WriteTextfile(t *testing.T) {
	t.Parallel()
	s := NewRunStats()
	s.RecordSample(time.Now(), 42, 64)

	path := filepath.Join(t.TempDir(), "perflog.prom")
	if err := s.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"perflog_rows_written_total 1",
		"perflog_cpu_usage_percent 42",
		"perflog_memory_usage_percent 64",
		"perflog_heap_alloc_bytes",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile should contain %q, got:\n%s", want, data)
		}
	}
}
