package engine

import (
	"log/slog"
	"strings"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/record"
)

// intakeState tracks what intake has already asked for in this tick, so a
// batch containing both a keystroke and Enter submits the typed text.
type intakeState struct {
	text    map[ir.Handle]string
	checked map[ir.Handle]bool
}

// intake drains the inbox and translates notifications into queued actions,
// focus requests and pass-through effects.
func (e *Engine) intake(t *tick, log *slog.Logger) {
	t.inputs = e.inbox.Drain()
	t.report.Inputs = len(t.inputs)

	st := &intakeState{
		text:    make(map[ir.Handle]string),
		checked: make(map[ir.Handle]bool),
	}
	for _, n := range t.inputs {
		switch note := n.(type) {
		case ir.Pointer:
			e.onPointer(t, st, note, log)
		case ir.TextChanged:
			e.onTextChanged(t, st, note, log)
		case ir.KeyPressed:
			e.onKey(t, st, note, log)
		case ir.Resize:
			t.emit(ir.SetViewport{Width: note.Width, Height: note.Height})
		case ir.Dispatch:
			if note.Action == nil {
				log.Warn("dispatch without action dropped")
				continue
			}
			e.enqueue(note.Action)
		default:
			log.Warn("unknown notification dropped", "kind", n.Kind())
		}
	}
}

func (e *Engine) enqueue(actions ...ir.Action) {
	e.actions = append(e.actions, actions...)
}

// onPointer handles a press. Presses on a label bubble up to its button.
func (e *Engine) onPointer(t *tick, st *intakeState, p ir.Pointer, log *slog.Logger) {
	if !p.Pressed {
		return
	}
	button, v, ok := e.pressTarget(p.View)
	if !ok {
		log.Warn("pointer on stale view dropped", "error", NewStaleHandleError(t.n, p.View, record.ErrStaleHandle))
		return
	}
	model := v.Model()

	switch v.Role() {
	case ir.RoleTodoDeleter:
		e.enqueue(ir.Delete{Model: model})
		e.focusTo(t, ir.Nil, "deleter")

	case ir.RoleTodoCheckmark:
		checked, seen := st.checked[model]
		if !seen {
			m, err := e.records.Model(model)
			if err != nil {
				log.Warn("checkmark on stale model dropped", "error", NewStaleHandleError(t.n, model, err))
				return
			}
			checked = m.Checked()
		}
		st.checked[model] = !checked
		e.enqueue(ir.UpdateChecked{Model: model, Checked: !checked})

	case ir.RoleTodoText, ir.RoleInputBox:
		label, ok := e.labelOf(v)
		if !ok {
			log.Warn("button without label", "view", button, "role", v.Role())
			return
		}
		e.focusTo(t, label, string(v.Role()))

	default:
		log.Debug("pointer ignored", "view", button, "role", v.Role())
	}
}

// pressTarget resolves a pressed view to the button that handles it.
func (e *Engine) pressTarget(h ir.Handle) (ir.Handle, *record.View, bool) {
	v, err := e.records.View(h)
	if err != nil {
		return ir.Nil, nil, false
	}
	if !v.Role().Label() || v.Parent().IsSlot() {
		return h, v, true
	}
	parent := v.Parent().View
	pv, err := e.records.View(parent)
	if err != nil {
		return ir.Nil, nil, false
	}
	return parent, pv, true
}

// labelOf returns the label child of a button view.
func (e *Engine) labelOf(button *record.View) (ir.Handle, bool) {
	for _, c := range button.Children() {
		if v, err := e.records.View(c); err == nil && v.Role().Label() {
			return c, true
		}
	}
	return ir.Nil, false
}

// focusTo requests focus on target and keeps model editing flags paired
// with it: the model losing focus stops editing, the one gaining it starts.
func (e *Engine) focusTo(t *tick, target ir.Handle, origin string) {
	prev := t.focus.Cursor()
	if prev == target {
		return
	}
	if v, err := e.records.View(prev); err == nil {
		e.enqueue(ir.Edit{Model: v.Model(), Editing: false})
	}
	if v, err := e.records.View(target); err == nil {
		e.enqueue(ir.Edit{Model: v.Model(), Editing: true})
	}
	t.focus.Request(target, origin)
}

// onTextChanged forwards typing on the focused view to its model.
// Text for any other view is dropped; views never own text.
func (e *Engine) onTextChanged(t *tick, st *intakeState, n ir.TextChanged, log *slog.Logger) {
	if n.View.IsNil() || n.View != t.focus.Committed() {
		log.Debug("text change on unfocused view dropped", "view", n.View)
		return
	}
	v, err := e.records.View(n.View)
	if err != nil {
		log.Warn("text change on stale view dropped", "error", NewStaleHandleError(t.n, n.View, err))
		return
	}
	st.text[v.Model()] = n.Text
	e.enqueue(ir.UpdateText{Model: v.Model(), Text: n.Text})
}

// onKey handles Enter and Escape against the committed focus.
func (e *Engine) onKey(t *tick, st *intakeState, k ir.KeyPressed, log *slog.Logger) {
	switch k.Key {
	case ir.KeyEscape:
		e.focusTo(t, ir.Nil, "escape")

	case ir.KeyEnter:
		focused := t.focus.Committed()
		if focused.IsNil() {
			return
		}
		v, err := e.records.View(focused)
		if err != nil {
			log.Warn("enter on stale focus dropped", "error", NewStaleHandleError(t.n, focused, err))
			return
		}
		switch v.Role() {
		case ir.RoleInputLabel:
			e.submitInput(st, v.Model(), log)
		case ir.RoleTodoTextLabel:
			e.focusTo(t, ir.Nil, "enter")
		}

	default:
		log.Debug("key ignored", "key", k.Key)
	}
}

// submitInput turns the input buffer into a new todo and clears the buffer
// through the model. Blank input is ignored.
func (e *Engine) submitInput(st *intakeState, input ir.Handle, log *slog.Logger) {
	text, seen := st.text[input]
	if !seen {
		m, err := e.records.Model(input)
		if err != nil {
			return
		}
		text = m.Text()
	}
	if strings.TrimSpace(text) == "" {
		log.Debug("blank input ignored")
		return
	}
	st.text[input] = ""
	e.enqueue(
		ir.Create{Model: ir.ModelTodo, Text: text},
		ir.UpdateText{Model: input, Text: ""},
	)
}
