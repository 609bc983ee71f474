package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/perflog/internal/format"
)

// HeaderModel renders the top bar: title, log file and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	logFile   string
	interval  time.Duration
	width     int
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version}
}

// SetRun records the run parameters once sampling starts.
func (h *HeaderModel) SetRun(logFile string, interval time.Duration, started time.Time) {
	h.logFile = logFile
	h.interval = interval
	if !started.IsZero() {
		h.startTime = started
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "perflog"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	parts := []string{titleStyle.Render(titleText)}
	if h.logFile != "" {
		parts = append(parts, dimStyle.Render("File: ")+h.logFile)
	}
	if h.interval > 0 {
		parts = append(parts, dimStyle.Render("Every ")+format.FormatSeconds(h.interval))
	}
	parts = append(parts, elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.elapsed()))))

	row := strings.Join(parts, pipe)
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Width(h.width).Render(row)
}
