package record

import "github.com/roach88/mvsync/internal/ir"

// Entry is the content of one arena slot: exactly one of *Model or *View.
//
// Sealed - the tag discipline is structural. A slot holds a single Entry
// value, so a record cannot be both a model and a view, and an allocated
// record cannot be neither.
type Entry interface {
	entry()
}

// Model is canonical state for a todo item or the input buffer.
//
// Fields are read through accessors and written only through Store setters,
// which is how the store knows which fields pulsed dirty this tick.
type Model struct {
	kind    ir.ModelKind
	text    string
	checked bool
	editing bool
}

// NewModel returns a model of the given kind with every flag false.
func NewModel(kind ir.ModelKind, text string) *Model {
	return &Model{kind: kind, text: text}
}

func (*Model) entry() {}

func (m *Model) Kind() ir.ModelKind { return m.kind }
func (m *Model) Text() string       { return m.text }
func (m *Model) Checked() bool      { return m.checked }
func (m *Model) Editing() bool      { return m.editing }

// View is a display-facing projection of exactly one model record.
//
// The back-reference is fixed at construction. The parent is assigned once,
// either by Store.Link (view parent) or Store.Attach (slot parent).
type View struct {
	role     ir.Role
	model    ir.Handle
	parent   ir.Parent
	children []ir.Handle

	// Displayed state. Written by the engine's propagation and focus phases.
	Text     string
	Style    ir.Style
	Editable bool
}

// NewView returns an unattached view of role r bound to model.
func NewView(r ir.Role, model ir.Handle, text string, style ir.Style) *View {
	return &View{role: r, model: model, Text: text, Style: style}
}

func (*View) entry() {}

func (v *View) Role() ir.Role     { return v.role }
func (v *View) Model() ir.Handle  { return v.model }
func (v *View) Parent() ir.Parent { return v.parent }

// Children returns a copy of the view's child handles in link order.
func (v *View) Children() []ir.Handle {
	out := make([]ir.Handle, len(v.children))
	copy(out, v.children)
	return out
}

func (v *View) attached() bool {
	return v.parent.IsSlot() || !v.parent.View.IsNil()
}

func (v *View) removeChild(h ir.Handle) {
	for i, c := range v.children {
		if c == h {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return
		}
	}
}
