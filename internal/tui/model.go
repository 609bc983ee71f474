package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/perflog/internal/sampler"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 4
	LogsPanelWidthPercent = 55
	MetricsPanelHeight    = 5
)

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) logsWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.logsWidth()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	LayoutManager

	// cancel stops the sampler when the user quits.
	cancel context.CancelFunc
	paused bool
	done   bool
}

// NewModel creates a dashboard. cancel is invoked when the user quits.
func NewModel(cancel context.CancelFunc, version string) Model {
	return Model{
		header: NewHeaderModel(version),
		logs:   NewLogsModel(),
		chart:  NewChartModel(),
		footer: NewFooterModel(),
		keymap: DefaultKeyMap(),
		cancel: cancel,
	}
}

// Init starts the elapsed-time ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case StartMsg:
		m.header.SetRun(msg.Start.LogFile, msg.Start.Interval, msg.Start.Time)
		m.logs.Add(dimStyle.Render(fmt.Sprintf("logging to %s", msg.Start.LogFile)))
		return m, nil

	case SampleMsg:
		// Counters always advance; pausing freezes only the history views.
		m.metrics.AddSample(msg.Row)
		if !m.paused {
			m.chart.AddSample(msg.Row)
			m.logs.AddSample(msg.Row)
		}
		return m, nil

	case SampleErrorMsg:
		m.metrics.AddFailure()
		if !m.paused {
			m.logs.AddError(msg.Time, msg.Err)
		}
		return m, nil

	case StopMsg:
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	logs := m.logs.renderToHeight(lipgloss.Height(rightCol))
	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// tickCmd refreshes the header every 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// programRunner is the part of *tea.Program that Run drives.
type programRunner interface {
	messageSender
	Run() (tea.Model, error)
}

var newProgram = func(m tea.Model) programRunner {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run shows the dashboard while run samples in a second goroutine. Quitting
// the dashboard cancels the context passed to run. Sampling ending closes
// the dashboard. It returns run's result and error; a dashboard failure is
// returned only when run itself succeeded.
func Run(ctx context.Context, rep *Reporter, version string, run func(context.Context) (sampler.Result, error)) (sampler.Result, error) {
	// Rebuild styles from the ui theme chosen by the caller.
	initTUIStyles()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := newProgram(NewModel(cancel, version))
	rep.ref.SetProgram(p)

	var (
		res    sampler.Result
		runErr error
		uiErr  error
	)
	var g errgroup.Group
	g.Go(func() error {
		res, runErr = run(ctx)
		// Covers the case where the loop stopped without reaching ReportStop.
		p.Send(StopMsg{Result: res})
		return runErr
	})
	g.Go(func() error {
		_, uiErr = p.Run()
		// Closing the dashboard by any means ends sampling.
		cancel()
		return uiErr
	})
	// Both errors are inspected individually below.
	_ = g.Wait()

	if runErr != nil {
		return res, runErr
	}
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) && !errors.Is(uiErr, tea.ErrInterrupted) {
		return res, fmt.Errorf("dashboard: %w", uiErr)
	}
	return res, nil
}
