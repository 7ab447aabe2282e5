package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/engine"
	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/scene"
)

// fixture drives a model against a real engine, ticking synchronously
// after every message.
type fixture struct {
	t     *testing.T
	scene *scene.Scene
	eng   *engine.Engine
	model Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sc := scene.New(ir.RequiredSlots...)
	e := engine.New(sc, engine.WithLogger(engine.DiscardLogger()))
	require.NoError(t, e.Start(context.Background(), sc.Slots()))
	return &fixture{t: t, scene: sc, eng: e, model: NewModel(sc, e, "What needs to be done?")}
}

func (f *fixture) send(msgs ...tea.Msg) tea.Cmd {
	f.t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = f.model.Update(msg)
		f.model = next.(Model)
		_, err := f.eng.Tick(context.Background())
		require.NoError(f.t, err)
		require.NoError(f.t, f.eng.Settle(context.Background()))
		next, _ = f.model.Update(EffectsMsg{})
		f.model = next.(Model)
	}
	require.NoError(f.t, f.scene.Err())
	return cmd
}

func (f *fixture) typeText(s string) {
	f.t.Helper()
	for _, r := range s {
		if r == ' ' {
			f.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		f.send(runes(string(r)))
	}
}

func (f *fixture) labels() []string {
	var out []string
	for _, r := range f.scene.Rows() {
		out = append(out, r.Label)
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	bksp  = tea.KeyMsg{Type: tea.KeyBackspace}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestModel_TypeAndSubmit(t *testing.T) {
	f := newFixture(t)

	f.typeText("buy milk")
	in, ok := f.scene.Input()
	require.True(t, ok)
	assert.Equal(t, "buy milk", in.Text)
	assert.True(t, in.Editable)

	f.send(enter)
	assert.Equal(t, []string{"buy milk"}, f.labels())

	in, _ = f.scene.Input()
	assert.Empty(t, in.Text)
	assert.Equal(t, in.Label, f.scene.Focus(), "input keeps focus after submit")

	f.typeText("eggs")
	f.send(enter)
	assert.Equal(t, []string{"buy milk", "eggs"}, f.labels())
}

func TestModel_Backspace(t *testing.T) {
	f := newFixture(t)

	f.typeText("abc")
	f.send(bksp, bksp)
	in, _ := f.scene.Input()
	assert.Equal(t, "a", in.Text)

	f.send(bksp, bksp)
	in, _ = f.scene.Input()
	assert.Empty(t, in.Text)
}

func TestModel_DraftOutrunsEffects(t *testing.T) {
	f := newFixture(t)

	// Three keys before any tick: each must build on the previous one.
	for _, r := range "abc" {
		next, _ := f.model.Update(runes(string(r)))
		f.model = next.(Model)
	}
	_, err := f.eng.Tick(context.Background())
	require.NoError(t, err)

	in, _ := f.scene.Input()
	assert.Equal(t, "abc", in.Text)
}

func TestModel_NavigateToggleDelete(t *testing.T) {
	f := newFixture(t)
	f.typeText("a")
	f.send(enter)
	f.typeText("b")
	f.send(enter)

	f.send(esc)
	assert.True(t, f.scene.Focus().IsNil())

	// Space in navigation mode checks the selected row.
	f.send(down, down, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	rows := f.scene.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, ir.StyleNormal, rows[0].LabelStyle)
	assert.Equal(t, ir.StyleCompleted, rows[1].LabelStyle)
	assert.Equal(t, "[x]", rows[1].Glyph)

	f.send(runes("x"))
	assert.Equal(t, "[ ]", f.scene.Rows()[1].Glyph)

	f.send(runes("d"))
	assert.Equal(t, []string{"a"}, f.labels())
	assert.Equal(t, 1, f.model.cursor, "cursor clamps to the remaining rows")
}

func TestModel_EditTodo(t *testing.T) {
	f := newFixture(t)
	f.typeText("milk")
	f.send(enter, esc)

	f.send(down, runes("e"))
	row := f.scene.Rows()[0]
	assert.Equal(t, row.TextLabel, f.scene.Focus())
	assert.True(t, row.Editable)
	assert.Equal(t, ir.StyleEditing, row.TextStyle)

	// Navigation keys are text while editing.
	f.typeText(" jd")
	assert.Equal(t, []string{"milk jd"}, f.labels())

	f.send(enter)
	assert.True(t, f.scene.Focus().IsNil())
	row = f.scene.Rows()[0]
	assert.False(t, row.Editable)
	assert.Equal(t, ir.StyleNormal, row.TextStyle)
}

func TestModel_InputKeyRefocuses(t *testing.T) {
	f := newFixture(t)
	f.send(esc)
	assert.True(t, f.scene.Focus().IsNil())

	f.send(runes("i"))
	in, _ := f.scene.Input()
	assert.Equal(t, in.Label, f.scene.Focus())
	assert.Zero(t, f.model.cursor)

	// Typing resumes on the input, not as a command.
	f.typeText("q")
	in, _ = f.scene.Input()
	assert.Equal(t, "q", in.Text)
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t)

	cmd := f.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// q is text while the input is focused.
	assert.Nil(t, f.send(runes("q")))
	f.send(esc)

	cmd = f.send(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Resize(t *testing.T) {
	f := newFixture(t)
	f.send(tea.WindowSizeMsg{Width: 60, Height: 20})

	w, h := f.scene.Viewport()
	assert.Equal(t, 60, w)
	assert.Equal(t, 20, h)
}

func TestModel_StoppedEngine(t *testing.T) {
	f := newFixture(t)
	f.eng.Stop()

	next, _ := f.model.Update(runes("a"))
	f.model = next.(Model)
	assert.Contains(t, f.model.View(), "engine stopped")
}

func TestModel_View(t *testing.T) {
	f := newFixture(t)

	view := f.model.View()
	assert.Contains(t, view, "todos")
	assert.Contains(t, view, "0/0 done")
	assert.Contains(t, view, "nothing to do")

	f.typeText("milk")
	f.send(enter)
	f.typeText("eggs")
	f.send(enter, esc)
	f.send(down, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	view = f.model.View()
	assert.Contains(t, view, "1/2 done")
	assert.Contains(t, view, "milk")
	assert.Contains(t, view, "eggs")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "[ ]")
	assert.Contains(t, view, "What needs to be done?", "placeholder shows on an empty unfocused input")
	assert.NotContains(t, view, "nothing to do")
	assert.True(t, strings.Contains(view, "> "), "cursor marker on the selected row")
}
