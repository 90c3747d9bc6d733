package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/render"
	"github.com/matzehuels/floorplan/pkg/session"
)

// Editor styles
var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editRoomStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editOKStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	editFloorStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorGray)
)

// Editor step bounds in meters.
const (
	defaultEditStep = 0.25
	minEditStep     = 0.05
	maxEditStep     = 2.0
	gridColumns     = 60
)

// =============================================================================
// EditModel - Interactive layout editing
// =============================================================================

// regeneratedMsg carries the outcome of a background regeneration.
type regeneratedMsg struct {
	result *plan.Result
	err    error
}

// EditModel is the bubbletea model for adjusting a generated layout. Every
// change goes through the session store so edits are checked the same way
// the HTTP API checks them.
type EditModel struct {
	ctx   context.Context
	store session.Store
	id    string
	gen   session.Generator
	save  func(*plan.Result) (string, error)

	Session *session.Session
	Cursor  int
	Step    float64
	Status  string
	Failed  bool
	Saved   string
	Busy    bool
}

// NewEditModel creates an editor over the stored session id.
func NewEditModel(ctx context.Context, store session.Store, sess *session.Session, gen session.Generator, save func(*plan.Result) (string, error)) EditModel {
	return EditModel{
		ctx:     ctx,
		store:   store,
		id:      sess.ID,
		gen:     gen,
		save:    save,
		Session: sess,
		Step:    defaultEditStep,
	}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case regeneratedMsg:
		m.Busy = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		return m.apply("Regenerated layout", func(s *session.Session) error {
			return s.Regenerate(m.ctx, func(context.Context, plan.Request) (*plan.Result, error) {
				return msg.result, nil
			})
		}), nil
	}
	return m, nil
}

func (m EditModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rooms := m.rooms()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if len(rooms) > 0 {
			m.Cursor = (m.Cursor + 1) % len(rooms)
		}
	case "shift+tab":
		if len(rooms) > 0 {
			m.Cursor = (m.Cursor - 1 + len(rooms)) % len(rooms)
		}
	case "+", "=":
		m.Step = math.Min(m.Step*2, maxEditStep)
		m.Status, m.Failed = fmt.Sprintf("Step %.2f m", m.Step), false
	case "-", "_":
		m.Step = math.Max(m.Step/2, minEditStep)
		m.Status, m.Failed = fmt.Sprintf("Step %.2f m", m.Step), false
	case "left", "h":
		return m.nudge(-m.Step, 0, 0, 0), nil
	case "right", "l":
		return m.nudge(m.Step, 0, 0, 0), nil
	case "up", "k":
		return m.nudge(0, m.Step, 0, 0), nil
	case "down", "j":
		return m.nudge(0, -m.Step, 0, 0), nil
	case "H":
		return m.nudge(0, 0, -m.Step, 0), nil
	case "L":
		return m.nudge(0, 0, m.Step, 0), nil
	case "K":
		return m.nudge(0, 0, 0, m.Step), nil
	case "J":
		return m.nudge(0, 0, 0, -m.Step), nil
	case "r":
		if m.Busy || m.gen == nil {
			return m, nil
		}
		m.Busy = true
		m.Status, m.Failed = "Regenerating...", false
		return m, m.regenerate()
	case "s":
		if m.save == nil {
			return m, nil
		}
		path, err := m.save(m.Session.Result)
		if err != nil {
			return m.fail(err), nil
		}
		m.Saved = path
		m.Status, m.Failed = "Saved "+path, false
	}
	return m, nil
}

// nudge patches the selected room by the given deltas.
func (m EditModel) nudge(dx, dy, dw, dh float64) EditModel {
	rooms := m.rooms()
	if m.Cursor >= len(rooms) {
		return m
	}
	room := rooms[m.Cursor]
	var p session.Patch
	if dx != 0 || dy != 0 {
		x, y := room.X+dx, room.Y+dy
		p.X, p.Y = &x, &y
	}
	if dw != 0 || dh != 0 {
		w, h := room.W+dw, room.H+dh
		p.W, p.H = &w, &h
	}

	var placed plan.PlacedRoom
	next := m.apply("", func(s *session.Session) error {
		var err error
		placed, err = s.ApplyOverride(room.ID, p)
		return err
	})
	if !next.Failed {
		next.Status = fmt.Sprintf("%s at (%.2f, %.2f) %.2f×%.2f", room.ID, placed.X, placed.Y, placed.W, placed.H)
	}
	return next
}

// apply runs fn through the store and swaps in the committed session.
func (m EditModel) apply(status string, fn func(*session.Session) error) EditModel {
	updated, err := m.store.Update(m.ctx, m.id, fn)
	if err != nil {
		return m.fail(err)
	}
	m.Session = updated
	if n := len(m.rooms()); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
	m.Status, m.Failed = status, false
	return m
}

func (m EditModel) fail(err error) EditModel {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg = string(code) + ": " + msg
	}
	m.Status, m.Failed = msg, true
	return m
}

func (m EditModel) regenerate() tea.Cmd {
	ctx, gen, req := m.ctx, m.gen, m.Session.Request
	return func() tea.Msg {
		res, err := gen(ctx, req)
		return regeneratedMsg{result: res, err: err}
	}
}

func (m EditModel) rooms() []plan.PlacedRoom {
	if m.Session == nil || m.Session.Result == nil {
		return nil
	}
	return m.Session.Result.Rooms
}

func (m EditModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit Layout"))
	b.WriteString(editDimStyle.Render(fmt.Sprintf("  rev %d  step %.2f m", m.Session.Revision, m.Step)))
	b.WriteString("\n")
	b.WriteString(editDimStyle.Render("tab select  ←↑↓→ move  H/J/K/L resize  +/- step  r regenerate  s save  q quit"))
	b.WriteString("\n\n")

	if m.Session.Result != nil {
		grid := editFloorStyle.Render(m.grid())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", m.roomTable().Render()))
		b.WriteString("\n")
	}

	switch {
	case m.Status == "":
	case m.Failed:
		b.WriteString(editErrorStyle.Render(iconError + " " + m.Status))
	default:
		b.WriteString(editOKStyle.Render(iconSuccess) + " " + m.Status)
	}
	b.WriteString("\n")
	return b.String()
}

// grid draws the usable interior as characters, one letter per room.
// Terminal cells are about twice as tall as wide, so rows use half the
// horizontal resolution.
func (m EditModel) grid() string {
	res := m.Session.Result
	t := math.Max(res.Floor.WallThickness, 0)
	w, h := res.Floor.Width-2*t, res.Floor.Height-2*t
	if w <= 0 || h <= 0 {
		return ""
	}
	cell := w / gridColumns
	rows := max(int(math.Round(h/(cell*2))), 1)

	var b strings.Builder
	for r := 0; r < rows; r++ {
		y := h/2 - (float64(r)+0.5)*h/float64(rows)
		for col := 0; col < gridColumns; col++ {
			x := -w/2 + (float64(col)+0.5)*cell
			b.WriteString(m.cellAt(x, y))
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m EditModel) cellAt(x, y float64) string {
	for i, room := range m.rooms() {
		minX, minY, maxX, maxY := room.Bounds()
		if x < minX || x > maxX || y < minY || y > maxY {
			continue
		}
		ch := string(roomLetter(i))
		if i == m.Cursor {
			return editSelectedStyle.Render(ch)
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(render.Fill(room))).Render(ch)
	}
	return editDimStyle.Render("·")
}

func (m EditModel) roomTable() *table.Table {
	rooms := m.rooms()
	rows := make([][]string, 0, len(rooms))
	for i, r := range rooms {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor + string(roomLetter(i)),
			r.ID,
			render.Label(r),
			fmt.Sprintf("%.2f, %.2f", r.X, r.Y),
			fmt.Sprintf("%.2f×%.2f", r.W, r.H),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Room", "Center", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return editSelectedStyle
			}
			return editRoomStyle
		})
}

// roomLetter labels the i-th room on the grid.
func roomLetter(i int) rune {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return rune(letters[i%len(letters)])
}
