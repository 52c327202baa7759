// internal/tui/watch.go
// Package tui renders a live view of long narrate and predict runs: one
// progress bar per model plus rolling ok/failed counters and the latest
// request latency. The view consumes updates over a channel owned by the
// run coordinator; closing the channel ends the program.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Update is one progress report from a run coordinator.
type Update struct {
	Label   string
	Done    int
	Total   int
	OK      int
	Failed  int
	Latency time.Duration
}

var (
	titleStyle   = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type updateMsg Update

type closedMsg struct{}

// row tracks one label's latest state and its bar.
type row struct {
	bar    progress.Model
	latest Update
}

// Model is the bubbletea model behind the watch view.
type Model struct {
	title   string
	updates <-chan Update
	cancel  func()

	order    []string
	rows     map[string]*row
	width    int
	finished bool
}

// NewModel builds a watch view fed by updates. cancel is invoked when the
// user quits so the underlying run context stops dispatching work.
func NewModel(title string, updates <-chan Update, cancel func()) *Model {
	return &Model{
		title:   title,
		updates: updates,
		cancel:  cancel,
		rows:    make(map[string]*row),
		width:   60,
	}
}

// waitForUpdate relays the next channel message into the program.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

// Init starts listening on the update channel.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// Update handles key presses, resize, and progress messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		for _, r := range m.rows {
			r.bar.Width = barWidth(m.width)
		}

	case updateMsg:
		u := Update(msg)
		r, ok := m.rows[u.Label]
		if !ok {
			bar := progress.New(progress.WithDefaultGradient())
			bar.Width = barWidth(m.width)
			r = &row{bar: bar}
			m.rows[u.Label] = r
			m.order = append(m.order, u.Label)
		}
		r.latest = u
		return m, m.waitForUpdate()

	case closedMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the title, one bar per label, and the quit hint.
func (m *Model) View() string {
	s := titleStyle.Render(m.title) + "\n\n"
	for _, label := range m.order {
		r := m.rows[label]
		pct := 0.0
		if r.latest.Total > 0 {
			pct = float64(r.latest.Done) / float64(r.latest.Total)
		}

		counters := fmt.Sprintf("%d/%d ok=%d", r.latest.Done, r.latest.Total, r.latest.OK)
		if r.latest.Failed > 0 {
			counters += " " + failedStyle.Render(fmt.Sprintf("failed=%d", r.latest.Failed))
		}
		if r.latest.Latency > 0 {
			counters += counterStyle.Render(fmt.Sprintf("  %s", r.latest.Latency.Round(time.Millisecond)))
		}

		s += labelStyle.Render(label) + "\n"
		s += r.bar.ViewAs(pct) + "  " + counterStyle.Render(counters) + "\n\n"
	}
	if m.finished {
		s += helpStyle.Render("run complete")
	} else {
		s += helpStyle.Render("q to cancel")
	}
	return s
}

func barWidth(total int) int {
	w := total - 30
	if w < 10 {
		w = 10
	}
	if w > 70 {
		w = 70
	}
	return w
}

// Watch runs the view until the channel closes or the user quits.
func Watch(title string, updates <-chan Update, cancel func()) error {
	program := tea.NewProgram(NewModel(title, updates, cancel))
	_, err := program.Run()
	return err
}
