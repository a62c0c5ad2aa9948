// internal/tui/model.go
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamzrod/rosterwatch/internal/poller"
	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// Controller is what the terminal needs from the coordinator.
type Controller interface {
	Store() *status.Store
	Groups() []string
	Enabled() bool
	Toggle() bool
	Refresh(ctx context.Context) poller.CycleResult
	Last() (poller.CycleResult, bool)
}

// tickMsg drives the render cadence. Ticks from an older generation are
// dropped, which is how a blur cancels the pending tick.
type tickMsg struct {
	gen int
	at  time.Time
}

type cycleMsg poller.CycleResult

// Model is the bubbletea program state. Focus is the visibility signal:
// on blur the tick chain stops; on focus the board re-renders at once from
// the current Store and the chain restarts.
type Model struct {
	ctl    Controller
	board  *Board
	engine *render.Engine

	every   time.Duration
	now     func() time.Time
	gen     int
	visible bool

	keys     keyMap
	help     help.Model
	width    int
	last     render.TickResult
	lastPoll *poller.CycleResult
}

type Option func(*Model)

func WithClock(fn func() time.Time) Option { return func(m *Model) { m.now = fn } }

// New builds the model and its render engine.
func New(ctl Controller, every, threshold time.Duration, obs render.Observer, opts ...Option) (*Model, error) {
	if ctl == nil {
		return nil, errors.New("tui: controller required")
	}
	if every <= 0 {
		return nil, errors.New("tui: render interval must be > 0")
	}

	board := NewBoard()
	engine, err := render.NewEngine(ctl.Store(), board, threshold, obs)
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctl:     ctl,
		board:   board,
		engine:  engine,
		every:   every,
		now:     time.Now,
		visible: true,
		keys:    defaultKeys(),
		help:    help.New(),
		width:   80,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	m.renderTick()
	return m.schedule()
}

func (m *Model) schedule() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.every, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m *Model) renderTick() {
	snap := m.ctl.Store().Snapshot()
	m.board.Sync(snap.InGroups(m.ctl.Groups()))
	m.last = m.engine.Tick(m.now())
	if last, ok := m.ctl.Last(); ok {
		m.lastPoll = &last
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen || !m.visible {
			return m, nil
		}
		m.renderTick()
		return m, m.schedule()

	case tea.BlurMsg:
		m.visible = false
		m.gen++
		return m, nil

	case tea.FocusMsg:
		if m.visible {
			return m, nil
		}
		m.visible = true
		m.gen++
		m.renderTick()
		return m, m.schedule()

	case cycleMsg:
		res := poller.CycleResult(msg)
		if res.Dispatched() {
			m.lastPoll = &res
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.ctl.Toggle()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			ctl := m.ctl
			return m, func() tea.Msg {
				return cycleMsg(ctl.Refresh(context.Background()))
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("rosterwatch"))
	b.WriteString("  ")
	if m.ctl.Enabled() {
		b.WriteString(dimStyle.Render("sync on"))
	} else {
		b.WriteString(pausedStyle.Render("sync paused"))
	}
	b.WriteString("  ")
	b.WriteString(m.pollLine())
	b.WriteString("\n\n")

	rows := m.board.visible()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("no entities yet"))
		b.WriteString("\n")
	}
	for i, r := range rows {
		line := fmt.Sprintf("%3d  %-18s %-12s %s", i+1, clip(r.label(), 18), clip(r.group, 12), r.text)
		b.WriteString(rowStyle(r).Render(clip(line, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) pollLine() string {
	if m.lastPoll == nil {
		return dimStyle.Render("waiting for first poll")
	}
	p := m.lastPoll
	line := fmt.Sprintf("last poll %s %s", p.At.Format("15:04:05"), p.Outcome)
	if n := p.Failed(); n > 0 {
		return errorStyle.Render(fmt.Sprintf("%s, %d/%d groups failed", line, n, len(p.Groups)))
	}
	return dimStyle.Render(line)
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
