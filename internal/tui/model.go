package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/scene"
)

// Submitter accepts notifications for the engine's next tick.
// Implemented by *engine.Engine.
type Submitter interface {
	Submit(n ir.Notification) bool
}

// EffectsMsg tells the model that a tick delivered effects to the scene.
type EffectsMsg struct {
	Effects int
}

// Model is the bubbletea model of the todo screen. It draws from the scene
// and reports key presses to the engine as notifications; it never changes
// todo state itself.
type Model struct {
	scene       *scene.Scene
	engine      Submitter
	keys        keyMap
	help        help.Model
	placeholder string

	cursor int // 0 is the input box, i > 0 is row i-1

	// draft is the text typed into the focused label. Effects lag one tick
	// behind keystrokes, so successive keys build on the draft rather than
	// on the scene's copy.
	draft    string
	draftFor ir.Handle

	width  int
	height int
	status string
}

// NewModel creates a model over sc submitting to sub.
func NewModel(sc *scene.Scene, sub Submitter, placeholder string) Model {
	return Model{
		scene:       sc,
		engine:      sub,
		keys:        defaultKeyMap(),
		help:        help.New(),
		placeholder: placeholder,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.submit(ir.Resize{Width: msg.Width, Height: msg.Height})
		return m, nil

	case EffectsMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if label, ok := m.editing(); ok {
			return m.updateEditing(msg, label)
		}
		return m.updateNavigating(msg)
	}
	return m, nil
}

// editing reports the focused label while it accepts text.
func (m Model) editing() (scene.Node, bool) {
	focus := m.scene.Focus()
	if focus.IsNil() {
		return scene.Node{}, false
	}
	n, ok := m.scene.Node(focus)
	if !ok || !n.Editable {
		return scene.Node{}, false
	}
	return n, true
}

func (m Model) updateEditing(msg tea.KeyMsg, label scene.Node) (tea.Model, tea.Cmd) {
	if m.draftFor != label.View {
		m.draft, m.draftFor = label.Text, label.View
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.submit(ir.KeyPressed{Key: ir.KeyEnter})
		if label.Role == ir.RoleInputLabel && strings.TrimSpace(m.draft) != "" {
			// The engine clears the input on submit.
			m.draft = ""
		}
		return m, nil

	case tea.KeyEsc:
		m.submit(ir.KeyPressed{Key: ir.KeyEscape})
		m.draftFor = ir.Nil
		return m, nil

	case tea.KeyBackspace:
		r := []rune(m.draft)
		if len(r) == 0 {
			return m, nil
		}
		m.draft = string(r[:len(r)-1])

	case tea.KeySpace:
		m.draft += " "

	case tea.KeyRunes:
		m.draft += string(msg.Runes)

	default:
		return m, nil
	}

	m.submit(ir.TextChanged{View: label.View, Text: m.draft})
	return m, nil
}

func (m Model) updateNavigating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.draftFor = ir.Nil
	rows := m.scene.Rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows) {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Input):
		m.cursor = 0
		m.pressInput()

	case key.Matches(msg, m.keys.Cancel):
		m.status = ""

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selected(rows); ok {
			m.press(row.Checkmark)
		}

	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selected(rows); ok {
			m.press(row.Deleter)
		}

	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selected(rows); ok {
			m.press(row.Text)
		} else {
			m.pressInput()
		}
	}
	return m, nil
}

func (m Model) selected(rows []scene.Row) (scene.Row, bool) {
	if m.cursor < 1 || m.cursor > len(rows) {
		return scene.Row{}, false
	}
	return rows[m.cursor-1], true
}

func (m *Model) pressInput() {
	if in, ok := m.scene.Input(); ok {
		m.press(in.Box)
	}
}

func (m *Model) press(view ir.Handle) {
	m.submit(ir.Pointer{View: view, Pressed: true})
}

func (m *Model) submit(n ir.Notification) {
	if !m.engine.Submit(n) {
		m.status = "engine stopped"
	}
}

func (m *Model) clampCursor() {
	if n := len(m.scene.Rows()); m.cursor > n {
		m.cursor = n
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	rows := m.scene.Rows()
	done := 0
	for _, r := range rows {
		if r.LabelStyle == ir.StyleCompleted {
			done++
		}
	}
	b.WriteString(titleStyle.Render("todos"))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d/%d done", done, len(rows))))
	b.WriteString("\n")

	b.WriteString(m.viewInput())
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("  nothing to do"))
		b.WriteString("\n")
	}
	for i, r := range rows {
		b.WriteString(m.viewRow(i+1, r))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(pendingStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	panel := panelStyle
	if m.width > 2 {
		panel = panel.Width(m.width - 2)
	}
	return panel.Render(b.String())
}

func (m Model) viewInput() string {
	in, ok := m.scene.Input()
	if !ok {
		return mutedStyle.Render("starting...")
	}
	text := in.Text
	if in.Editable && m.draftFor == in.Label {
		text = m.draft
	}
	var content string
	switch {
	case in.Editable:
		content = text + caret
	case text == "":
		content = placeholderStyle.Render(m.placeholder)
	default:
		content = text
	}
	box := inputStyle
	if in.Editable {
		box = inputEditingStyle
	}
	if m.width > 6 {
		box = box.Width(m.width - 6)
	}
	if m.cursor == 0 && !in.Editable {
		content = selectedStyle.Render(content)
	}
	return box.Render(content)
}

func (m Model) viewRow(i int, r scene.Row) string {
	pointer := "  "
	if m.cursor == i {
		pointer = accentStyle.Render("> ")
	}

	glyph := r.Glyph
	if r.LabelStyle == ir.StyleCompleted {
		glyph = successStyle.Render(glyph)
	}

	text := r.Label
	if r.Editable && m.draftFor == r.TextLabel {
		text = m.draft
	}
	style := labelStyle(r.LabelStyle)
	if r.TextStyle == ir.StyleEditing {
		style = labelStyle(ir.StyleEditing)
	}
	label := style.Render(text)
	if r.Editable {
		label += caret
	}
	if m.cursor == i && !r.Editable {
		label = selectedStyle.Render(text)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		pointer, glyph, " ", label, " ", mutedStyle.Render(r.DeleterGlyph))
}
