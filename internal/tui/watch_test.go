// internal/tui/watch_test.go
package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateTracksRowsInArrivalOrder(t *testing.T) {
	m := NewModel("predict", nil, nil)

	next, _ := m.Update(updateMsg{Label: "model-a", Done: 1, Total: 4, OK: 1})
	m = next.(*Model)
	next, _ = m.Update(updateMsg{Label: "model-b", Done: 2, Total: 4, OK: 1, Failed: 1})
	m = next.(*Model)
	next, _ = m.Update(updateMsg{Label: "model-a", Done: 3, Total: 4, OK: 3, Latency: 120 * time.Millisecond})
	m = next.(*Model)

	if len(m.order) != 2 || m.order[0] != "model-a" || m.order[1] != "model-b" {
		t.Fatalf("unexpected row order: %v", m.order)
	}
	if got := m.rows["model-a"].latest.Done; got != 3 {
		t.Fatalf("model-a should show latest update, got done=%d", got)
	}

	view := m.View()
	for _, want := range []string{"model-a", "model-b", "3/4 ok=3", "failed=1", "120ms", "q to cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q:\n%s", want, view)
		}
	}
}

func TestQuitKeyCancelsRun(t *testing.T) {
	canceled := false
	m := NewModel("narrate", nil, func() { canceled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !canceled {
		t.Fatal("q should invoke the cancel function")
	}
	if cmd == nil {
		t.Fatal("q should quit the program")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("expected quit message, got %#v", msg)
	}
}

func TestClosedChannelFinishesView(t *testing.T) {
	m := NewModel("predict", nil, nil)

	next, cmd := m.Update(closedMsg{})
	m = next.(*Model)
	if cmd == nil {
		t.Fatal("closed channel should quit the program")
	}
	if !strings.Contains(m.View(), "run complete") {
		t.Fatal("finished view should say the run completed")
	}
}
