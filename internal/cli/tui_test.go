package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

func newTestStepper(t *testing.T, limit int) StepperModel {
	t.Helper()
	g, err := maze.Generate(maze.GenerateConfig{Width: 5, Height: 5, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	s, err := astar.New(g)
	if err != nil {
		t.Fatal(err)
	}
	return NewStepperModel(g, s, "test", time.Millisecond, limit)
}

func press(t *testing.T, m StepperModel, msg tea.Msg) (StepperModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(StepperModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStepperStep(t *testing.T) {
	m := newTestStepper(t, 0)
	if m.Solver.State() != astar.Initialized {
		t.Fatalf("initial state = %v", m.Solver.State())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Solver.Steps() != 1 {
		t.Errorf("steps after space = %d, want 1", m.Solver.Steps())
	}
	if m.Frame.Step != 1 || m.Frame.Current == nil {
		t.Errorf("frame not refreshed: step=%d current=%v", m.Frame.Step, m.Frame.Current)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Solver.Steps() != 2 {
		t.Errorf("steps after enter = %d, want 2", m.Solver.Steps())
	}
}

func TestStepperFinish(t *testing.T) {
	m := newTestStepper(t, 0)
	m, _ = press(t, m, runes("f"))
	if !m.Solver.IsSolved() {
		t.Fatalf("state after finish = %v", m.Solver.State())
	}
	if !m.Frame.Solved || len(m.Frame.Best) == 0 {
		t.Errorf("final frame not solved: %+v", m.Frame)
	}
	if view := m.View(); !strings.Contains(view, "Solved") {
		t.Errorf("view lacks solved status:\n%s", view)
	}

	steps := m.Solver.Steps()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Solver.Steps() != steps {
		t.Error("stepping a solved search changed it")
	}
}

func TestStepperLimit(t *testing.T) {
	m := newTestStepper(t, 2)
	m, _ = press(t, m, runes("f"))
	if !errors.Is(m.Err, errors.ErrCodeStepLimit) {
		t.Fatalf("Err = %v, want STEP_LIMIT", m.Err)
	}
	if m.Solver.Steps() != 2 {
		t.Errorf("steps = %d, want 2", m.Solver.Steps())
	}
}

func TestStepperRun(t *testing.T) {
	m := newTestStepper(t, 0)
	m, cmd := press(t, m, runes("r"))
	if !m.Running || cmd == nil {
		t.Fatal("r should start running and schedule a tick")
	}
	for i := 0; i < 1000 && m.Running; i++ {
		m, _ = press(t, m, tickMsg(time.Now()))
	}
	if !m.Solver.IsSolved() {
		t.Errorf("state after run = %v", m.Solver.State())
	}
	if m.Running {
		t.Error("still running after the search ended")
	}

	m, cmd = press(t, m, runes("r"))
	if m.Running || cmd != nil {
		t.Error("r on a finished search should do nothing")
	}
}

func TestStepperPause(t *testing.T) {
	m := newTestStepper(t, 0)
	m, _ = press(t, m, runes("r"))
	m, _ = press(t, m, runes("r"))
	if m.Running {
		t.Fatal("second r should pause")
	}
	m, cmd := press(t, m, tickMsg(time.Now()))
	if cmd != nil || m.Solver.Steps() != 0 {
		t.Error("a stale tick advanced a paused search")
	}
}

func TestStepperQuit(t *testing.T) {
	m := newTestStepper(t, 0)
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStepperView(t *testing.T) {
	m := newTestStepper(t, 0)
	for i := 0; i < 3; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	}
	view := m.View()
	for _, want := range []string{"test", "Step", "Open", "Pruned", "Explored", "S", "F"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
}
