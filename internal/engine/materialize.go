package engine

import (
	"log/slog"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/record"
	"github.com/roach88/mvsync/internal/tree"
)

// viewSpec is the initial displayed state of a view about to be spawned.
type viewSpec struct {
	role  ir.Role
	text  string
	style ir.Style
}

// materialize builds the view subtree of every model created this tick.
//
// The Created pulse lasts one tick, so each model is materialized exactly
// once. New views stay staged until the flush that follows propagation, so
// the propagator never touches them; they are spawned with current values.
func (e *Engine) materialize(t *tick, log *slog.Logger) {
	for _, h := range e.records.Created(ir.ModelTodo) {
		m := e.records.MustModel(h)
		row := e.spawnSubtree(t, h, ir.SlotTodoList, e.todoViews(m))
		log.Debug("todo materialized", "model", h, "row", row.Root)
	}
	for _, h := range e.records.Created(ir.ModelInput) {
		m := e.records.MustModel(h)
		box := e.spawnSubtree(t, h, ir.SlotInput, e.inputViews(m))
		label := box.Handles()[1]
		t.focus.Request(label, "materialize")
		log.Debug("input materialized", "model", h, "label", label)
	}
}

// todoViews describes a todo row:
//
//	todo-row
//	├── todo-checkmark ── todo-checkmark-label
//	├── todo-text ─────── todo-text-label
//	└── todo-deleter ──── todo-deleter-label
func (e *Engine) todoViews(m *record.Model) []viewSpec {
	return []viewSpec{
		{role: ir.RoleTodoRow, style: ir.StyleNormal},
		{role: ir.RoleTodoCheckmark, style: ir.StyleNormal},
		{role: ir.RoleTodoCheckmarkLabel, text: e.glyphs.Checkmark(m.Checked()), style: ir.StyleNormal},
		{role: ir.RoleTodoText, style: ir.EditingStyle(m.Editing())},
		{role: ir.RoleTodoTextLabel, text: m.Text(), style: ir.CompletedStyle(m.Checked())},
		{role: ir.RoleTodoDeleter, style: ir.StyleNormal},
		{role: ir.RoleTodoDeleterLabel, text: e.glyphs.Deleter, style: ir.StyleNormal},
	}
}

func (e *Engine) inputViews(m *record.Model) []viewSpec {
	return []viewSpec{
		{role: ir.RoleInputBox, style: ir.EditingStyle(m.Editing())},
		{role: ir.RoleInputLabel, text: m.Text(), style: ir.StyleNormal},
	}
}

// spawnSubtree spawns the views in specs, links them and emits CreateView
// effects parent-first. specs[0] is the root; the shape follows the role:
// a row holds three buttons with one label each, a box holds one label.
func (e *Engine) spawnSubtree(t *tick, model ir.Handle, slot ir.Slot, specs []viewSpec) tree.Node {
	handles := make([]ir.Handle, len(specs))
	byHandle := make(map[ir.Handle]viewSpec, len(specs))
	for i, s := range specs {
		handles[i] = e.records.Spawn(record.NewView(s.role, model, s.text, s.style))
		byHandle[handles[i]] = s
	}

	var node tree.Node
	if len(handles) == 2 {
		node = tree.New(handles[0], tree.Leaf(handles[1]))
	} else {
		node = tree.New(handles[0],
			tree.New(handles[1], tree.Leaf(handles[2])),
			tree.New(handles[3], tree.Leaf(handles[4])),
			tree.New(handles[5], tree.Leaf(handles[6])),
		)
	}

	// Fresh staged views: linking cannot fail short of a programming fault.
	if err := e.records.Attach(node.Root, slot); err != nil {
		panic(&record.FaultError{Op: "materialize", Err: err})
	}
	links := node.Links()
	if err := tree.Commit(e.records, links); err != nil {
		panic(&record.FaultError{Op: "materialize", Err: err})
	}

	root := byHandle[node.Root]
	t.emit(ir.CreateView{
		View: node.Root, Role: root.role, Model: model,
		Parent: ir.InSlot(slot), Text: root.text, Style: root.style,
	})
	for _, l := range links {
		s := byHandle[l.Child]
		t.emit(ir.CreateView{
			View: l.Child, Role: s.role, Model: model,
			Parent: ir.InView(l.Parent), Text: s.text, Style: s.style,
		})
	}
	return node
}
