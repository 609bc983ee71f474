package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/perflog/internal/format"
	"github.com/agbru/perflog/internal/sink"
)

// ─────────────────────────────────────────────────────────────────────────────
// Metrics panel
// ─────────────────────────────────────────────────────────────────────────────

// MetricsModel shows the latest utilization and run counters.
type MetricsModel struct {
	cpu, mem float64
	rows     int
	failures int
	last     time.Time
	width    int
	height   int
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// AddSample records a written row.
func (m *MetricsModel) AddSample(r sink.Row) {
	m.cpu = r.CPUPercent
	m.mem = r.MemoryPercent
	m.last = r.Time
	m.rows++
}

// AddFailure counts a skipped tick.
func (m *MetricsModel) AddFailure() {
	m.failures++
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	last := "-"
	if !m.last.IsZero() {
		last = m.last.Format(sink.TimestampLayout)
	}
	colWidth := max((m.width-6)/2, 0)
	lines := []string{
		formatMetricCol("CPU:", cpuStyle.Render(format.FormatPercent(m.cpu)), colWidth) +
			formatMetricCol("Memory:", memStyle.Render(format.FormatPercent(m.mem)), colWidth),
		formatMetricCol("Rows:", fmt.Sprintf("%d", m.rows), colWidth) +
			formatMetricCol("Failures:", fmt.Sprintf("%d", m.failures), colWidth),
		formatMetricCol("Last:", last, colWidth),
	}
	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-9s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

// ─────────────────────────────────────────────────────────────────────────────
// Chart panel
// ─────────────────────────────────────────────────────────────────────────────

// ChartModel plots recent CPU and memory history.
type ChartModel struct {
	cpu    *RingBuffer
	mem    *RingBuffer
	width  int
	height int
}

const defaultHistory = 120

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{cpu: NewRingBuffer(defaultHistory), mem: NewRingBuffer(defaultHistory)}
}

// SetSize updates dimensions and resizes the history to fill the plot.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	// Braille cells hold two samples each.
	capacity := max((w-4)*2, 1)
	c.cpu.Resize(capacity)
	c.mem.Resize(capacity)
}

// AddSample appends a row to both histories.
func (c *ChartModel) AddSample(r sink.Row) {
	c.cpu.Push(r.CPUPercent)
	c.mem.Push(r.MemoryPercent)
}

// View renders sparklines, then a braille CPU chart when there is room.
func (c ChartModel) View() string {
	inner := max(c.width-4, 0)
	lines := []string{
		dimStyle.Render("CPU ") + cpuStyle.Render(lastN(RenderSparkline(c.cpu.Slice()), inner-4)),
		dimStyle.Render("MEM ") + memStyle.Render(lastN(RenderSparkline(c.mem.Slice()), inner-4)),
	}
	if rows := c.height - 2 - len(lines); rows > 0 {
		for _, l := range RenderBrailleChart(c.cpu.Slice(), inner, rows) {
			lines = append(lines, cpuStyle.Render(l))
		}
	}
	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

// lastN keeps the trailing n runes of s.
func lastN(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// ─────────────────────────────────────────────────────────────────────────────
// Logs panel
// ─────────────────────────────────────────────────────────────────────────────

const maxLogEntries = 500

// LogsModel is a scrollable list of recent tick lines.
type LogsModel struct {
	entries []string
	offset  int // lines scrolled up from the bottom
	keymap  KeyMap
	width   int
	height  int
}

// NewLogsModel creates an empty log panel.
func NewLogsModel() LogsModel {
	return LogsModel{keymap: DefaultKeyMap()}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// Add appends a line, dropping the oldest past maxLogEntries.
func (l *LogsModel) Add(line string) {
	l.entries = append(l.entries, line)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
}

// AddSample appends a row line.
func (l *LogsModel) AddSample(r sink.Row) {
	l.Add(fmt.Sprintf("%s %s CPU %s  MEM %s",
		logTimeStyle.Render(r.Timestamp()),
		logSuccessStyle.Render("✓"),
		format.FormatPercent(r.CPUPercent),
		format.FormatPercent(r.MemoryPercent)))
}

// AddError appends a collection error line.
func (l *LogsModel) AddError(at time.Time, err error) {
	l.Add(fmt.Sprintf("%s %s",
		logTimeStyle.Render(at.Format(sink.TimestampLayout)),
		logErrorStyle.Render("✗ "+err.Error())))
}

// Update handles scroll keys.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := max(l.height-2, 1)
	switch {
	case key.Matches(msg, l.keymap.Up):
		l.offset++
	case key.Matches(msg, l.keymap.Down):
		l.offset--
	case key.Matches(msg, l.keymap.PageUp):
		l.offset += page
	case key.Matches(msg, l.keymap.PageDown):
		l.offset -= page
	}
	l.offset = min(max(l.offset, 0), max(len(l.entries)-page, 0))
}

// visible returns the entries that fit in n lines at the current offset.
func (l LogsModel) visible(n int) []string {
	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	end := max(len(l.entries)-l.offset, 0)
	start := max(end-n, 0)
	return l.entries[start:end]
}

// renderToHeight renders the panel with an outer height of h.
func (l LogsModel) renderToHeight(h int) string {
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(max(h-2, 0)).
		Render(strings.Join(l.visible(h-2), "\n"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Footer
// ─────────────────────────────────────────────────────────────────────────────

// FooterModel shows key help and the run status.
type FooterModel struct {
	keymap KeyMap
	paused bool
	done   bool
	width  int
}

// NewFooterModel creates a footer.
func NewFooterModel() FooterModel {
	return FooterModel{keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused updates the pause indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// View renders the footer.
func (f FooterModel) View() string {
	var parts []string
	for _, b := range f.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}

	var status string
	switch {
	case f.done:
		status = statusDoneStyle.Render("STOPPED")
	case f.paused:
		status = statusPausedStyle.Render("PAUSED")
	default:
		status = statusRunningStyle.Render("SAMPLING")
	}

	left := " " + strings.Join(parts, "  ")
	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(status)-1, 1)
	return left + strings.Repeat(" ", gap) + status
}
