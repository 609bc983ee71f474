package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/perflog/internal/sampler"
	"github.com/agbru/perflog/internal/sink"
)

// messageSender is the part of *tea.Program the bridge needs.
type messageSender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the sampler goroutine can send messages.
type programRef struct {
	mu      sync.RWMutex
	program messageSender
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p messageSender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, dropping it if none is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Reporter implements sampler.Reporter by forwarding every event to the
// dashboard as a message.
type Reporter struct {
	ref *programRef
	now func() time.Time
}

// NewReporter creates a Reporter not yet attached to a program. Run attaches
// it; events sent before that are dropped.
func NewReporter() *Reporter {
	return &Reporter{ref: &programRef{}, now: time.Now}
}

var _ sampler.Reporter = (*Reporter)(nil)

func (r *Reporter) ReportStart(s sampler.Start) { r.ref.Send(StartMsg{Start: s}) }

func (r *Reporter) ReportSample(row sink.Row) { r.ref.Send(SampleMsg{Row: row}) }

func (r *Reporter) ReportSampleError(err error) {
	r.ref.Send(SampleErrorMsg{Err: err, Time: r.now()})
}

func (r *Reporter) ReportStop(res sampler.Result) { r.ref.Send(StopMsg{Result: res}) }
