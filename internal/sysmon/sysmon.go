// Package sysmon provides system-wide CPU and memory usage sampling.
package sysmon

import (
	"context"
	"errors"
	"math"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	apperrors "github.com/agbru/perflog/internal/errors"
)

// Metric names used in SampleError.
const (
	MetricCPU    = "cpu"
	MetricMemory = "memory"
)

var (
	errNoCPUReading = errors.New("no cpu reading returned")
	errNoMemReading = errors.New("no memory reading returned")
	errNotANumber   = errors.New("reading is not a number")
)

// Monitor reads system-wide utilization through gopsutil.
// The zero value is not usable; call New.
type Monitor struct {
	cpuPercent func(ctx context.Context) ([]float64, error)
	memPercent func(ctx context.Context) (float64, error)
}

// New returns a Monitor backed by the host's counters.
func New() *Monitor {
	return &Monitor{
		cpuPercent: func(ctx context.Context) ([]float64, error) {
			// interval=0: delta since the previous call, never blocks.
			return cpu.PercentWithContext(ctx, 0, false)
		},
		memPercent: func(ctx context.Context) (float64, error) {
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return 0, err
			}
			if vm == nil {
				return 0, errNoMemReading
			}
			return vm.UsedPercent, nil
		},
	}
}

// Prime takes a throwaway CPU reading so the next CPUPercent call measures a
// real interval instead of the time since process start.
func (m *Monitor) Prime(ctx context.Context) error {
	_, err := m.CPUPercent(ctx)
	return err
}

// CPUPercent returns system-wide CPU utilization since the previous call.
// Failures are returned as apperrors.SampleError.
func (m *Monitor) CPUPercent(ctx context.Context) (float64, error) {
	pcts, err := m.cpuPercent(ctx)
	if err != nil {
		return 0, apperrors.SampleError{Metric: MetricCPU, Cause: err}
	}
	if len(pcts) == 0 {
		return 0, apperrors.SampleError{Metric: MetricCPU, Cause: errNoCPUReading}
	}
	return clampPercent(MetricCPU, pcts[0])
}

// MemoryPercent returns the share of physical memory in use.
// Failures are returned as apperrors.SampleError.
func (m *Monitor) MemoryPercent(ctx context.Context) (float64, error) {
	pct, err := m.memPercent(ctx)
	if err != nil {
		return 0, apperrors.SampleError{Metric: MetricMemory, Cause: err}
	}
	return clampPercent(MetricMemory, pct)
}

// clampPercent pins v to [0,100]. Counter wrap and rounding can push
// gopsutil slightly outside that range.
func clampPercent(metric string, v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, apperrors.SampleError{Metric: metric, Cause: errNotANumber}
	}
	return math.Max(0, math.Min(100, v)), nil
}
