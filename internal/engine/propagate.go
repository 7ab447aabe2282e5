package engine

import (
	"log/slog"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/record"
)

// propagation pushes one model field into views of one role.
// Exactly one of text and style is set.
type propagation struct {
	model ir.ModelKind
	field ir.Field
	role  ir.Role
	text  func(m *record.Model, g ir.Glyphs) string
	style func(m *record.Model) ir.Style
}

var propagations = []propagation{
	{
		model: ir.ModelTodo, field: ir.FieldText, role: ir.RoleTodoTextLabel,
		text: func(m *record.Model, _ ir.Glyphs) string { return m.Text() },
	},
	{
		model: ir.ModelTodo, field: ir.FieldChecked, role: ir.RoleTodoCheckmarkLabel,
		text: func(m *record.Model, g ir.Glyphs) string { return g.Checkmark(m.Checked()) },
	},
	{
		model: ir.ModelTodo, field: ir.FieldChecked, role: ir.RoleTodoTextLabel,
		style: func(m *record.Model) ir.Style { return ir.CompletedStyle(m.Checked()) },
	},
	{
		model: ir.ModelTodo, field: ir.FieldEditing, role: ir.RoleTodoText,
		style: func(m *record.Model) ir.Style { return ir.EditingStyle(m.Editing()) },
	},
	{
		model: ir.ModelInput, field: ir.FieldText, role: ir.RoleInputLabel,
		text: func(m *record.Model, _ ir.Glyphs) string { return m.Text() },
	},
	{
		model: ir.ModelInput, field: ir.FieldEditing, role: ir.RoleInputBox,
		style: func(m *record.Model) ir.Style { return ir.EditingStyle(m.Editing()) },
	},
}

var propagatedFields = []ir.Field{ir.FieldText, ir.FieldChecked, ir.FieldEditing}

// propagate pushes this tick's dirty model fields into dependent views.
//
// Views are found through the store's reverse index. An effect is emitted
// only when the displayed value actually changes, so repeated identical
// updates converge and idle ticks emit nothing.
func (e *Engine) propagate(t *tick, log *slog.Logger) {
	for _, field := range propagatedFields {
		for _, h := range e.records.Dirty(field) {
			m, err := e.records.Model(h)
			if err != nil {
				log.Warn("propagation skipped", "field", field, "error", NewStaleHandleError(t.n, h, err))
				continue
			}
			for _, vh := range e.records.ViewsOf(h) {
				v, err := e.records.View(vh)
				if err != nil {
					log.Warn("propagation skipped", "field", field, "error", NewStaleHandleError(t.n, vh, err))
					continue
				}
				e.applyRules(t, m, field, vh, v)
			}
		}
	}
}

func (e *Engine) applyRules(t *tick, m *record.Model, field ir.Field, vh ir.Handle, v *record.View) {
	for _, p := range propagations {
		if p.model != m.Kind() || p.field != field || p.role != v.Role() {
			continue
		}
		if p.text != nil {
			if text := p.text(m, e.glyphs); text != v.Text {
				v.Text = text
				t.emit(ir.SetText{View: vh, Text: text})
			}
		}
		if p.style != nil {
			if style := p.style(m); style != v.Style {
				v.Style = style
				t.emit(ir.SetStyle{View: vh, Style: style})
			}
		}
	}
}
