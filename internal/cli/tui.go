package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/labyrinth/pkg/astar"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// Maze overlay styles
var (
	mazeWallStyle    = lipgloss.NewStyle().Foreground(colorGray)
	mazeStaleStyle   = lipgloss.NewStyle().Foreground(colorDim)
	mazeHistStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	mazeOpenStyle    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	mazeBestStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	mazeCurrentStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	mazeEndStyle     = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)

	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Overlay glyphs, two per cell.
const (
	glyphStale   = "░░"
	glyphHistory = "··"
	glyphOpen    = "◦◦"
	glyphBest    = "██"
	glyphCurrent = "◆◆"
)

// =============================================================================
// StepperModel - Interactive search stepping
// =============================================================================

// tickMsg advances a running search.
type tickMsg time.Time

// StepperModel is the bubbletea model for stepping a search one expansion
// at a time.
type StepperModel struct {
	Grid    *maze.Grid
	Solver  *astar.Solver
	Frame   render.Frame
	Title   string
	Running bool
	Delay   time.Duration
	Limit   int
	Err     error

	tracker *render.Tracker
}

// NewStepperModel creates a stepper for s on g. Limit bounds the number of
// steps; zero means unbounded.
func NewStepperModel(g *maze.Grid, s *astar.Solver, title string, delay time.Duration, limit int) StepperModel {
	t := render.NewTracker()
	return StepperModel{
		Grid:    g,
		Solver:  s,
		Frame:   t.Frame(s.Snapshot()),
		Title:   title,
		Delay:   delay,
		Limit:   limit,
		tracker: t,
	}
}

func (m StepperModel) tick() tea.Cmd {
	return tea.Tick(m.Delay, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// done reports whether no more steps can be taken.
func (m StepperModel) done() bool {
	return m.Err != nil || m.Solver.State().Terminal()
}

// step advances the search once and refreshes the frame.
func (m StepperModel) step() StepperModel {
	if m.done() {
		m.Running = false
		return m
	}
	if m.Limit > 0 && m.Solver.Steps() >= m.Limit {
		m.Err = errors.New(errors.ErrCodeStepLimit, "no result after %d steps", m.Limit)
		m.Running = false
		return m
	}
	if _, err := m.Solver.Step(); err != nil {
		m.Err = err
		m.Running = false
		return m
	}
	m.Frame = m.tracker.Frame(m.Solver.Snapshot())
	if m.done() {
		m.Running = false
	}
	return m
}

func (m StepperModel) Init() tea.Cmd {
	return nil
}

func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "enter", "n", "right", "l":
			m.Running = false
			return m.step(), nil
		case "r":
			if m.done() {
				return m, nil
			}
			m.Running = !m.Running
			if m.Running {
				return m, m.tick()
			}
		case "f":
			m.Running = false
			for !m.done() {
				m = m.step()
			}
		}
	case tickMsg:
		if !m.Running {
			return m, nil
		}
		m = m.step()
		if m.Running {
			return m, m.tick()
		}
	}
	return m, nil
}

func (m StepperModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("space step  r run/pause  f finish  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.mazeView(), "  ", m.statsView()))
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.Err))
	case m.Solver.IsSolved():
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " +
			fmt.Sprintf("Solved: %d cells in %s", len(m.Frame.Best), plural(m.Frame.Step, "step")))
	case m.Solver.IsExhausted():
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render("No route"))
	case m.Running:
		b.WriteString(listDimStyle.Render("running..."))
	}
	b.WriteString("\n")
	return b.String()
}

// mazeView draws the ASCII maze with the frame layers on top.
func (m StepperModel) mazeView() string {
	lines := strings.Split(strings.TrimRight(m.Grid.String(), "\n"), "\n")
	cells := make(map[maze.Point]string)
	mark := func(p maze.Point, glyph string, style lipgloss.Style) {
		if p == m.Grid.Start() || p == m.Grid.Finish() {
			glyph = lines[1+2*p.Y][1+3*p.X : 3+3*p.X]
			style = style.Inherit(mazeEndStyle)
		}
		cells[p] = style.Render(glyph)
	}

	for _, s := range m.Frame.Stale {
		mark(s.A, glyphStale, mazeStaleStyle)
		mark(s.B, glyphStale, mazeStaleStyle)
	}
	for _, s := range m.Frame.Histories {
		mark(s.A, glyphHistory, mazeHistStyle)
		mark(s.B, glyphHistory, mazeHistStyle)
	}
	for _, p := range m.Frame.Open {
		mark(p, glyphOpen, mazeOpenStyle)
	}
	for _, p := range m.Frame.Best {
		mark(p, glyphBest, mazeBestStyle)
	}
	if m.Frame.Current != nil && !m.Frame.Solved {
		mark(*m.Frame.Current, glyphCurrent, mazeCurrentStyle)
	}

	var b strings.Builder
	for i, line := range lines {
		if i%2 == 0 {
			b.WriteString(mazeWallStyle.Render(line))
			b.WriteString("\n")
			continue
		}
		y := (i - 1) / 2
		b.WriteString(mazeWallStyle.Render(line[:1]))
		for x := 0; x < m.Grid.Width(); x++ {
			interior := line[1+3*x : 3+3*x]
			if c, ok := cells[maze.Point{X: x, Y: y}]; ok {
				b.WriteString(c)
			} else {
				b.WriteString(mazeEndStyle.Render(interior))
			}
			b.WriteString(mazeWallStyle.Render(line[3+3*x : 4+3*x]))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// statsView renders the search counters as a table.
func (m StepperModel) statsView() string {
	s := m.Solver
	rows := [][]string{
		{"State", s.State().String()},
		{"Step", strconv.Itoa(s.Steps())},
		{"Open", strconv.Itoa(len(m.Frame.Open))},
		{"Expanded", strconv.Itoa(s.Expansions())},
		{"Pruned", strconv.Itoa(s.Pruned())},
		{"Discarded", strconv.Itoa(s.Discarded())},
		{"Best", strconv.Itoa(len(m.Frame.Best))},
		{"Explored", strconv.Itoa(m.tracker.Explored())},
	}
	if last, ok := s.Last(); ok {
		rows = append(rows,
			[]string{"Current", fmt.Sprintf("%v %s", last.Point, last.Plane)},
			[]string{"f = g + h", fmt.Sprintf("%d + %.2f", last.PathCost, last.Estimate)})
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return StyleNumber
		}).
		Render()
}
