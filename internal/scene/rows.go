package scene

import "github.com/roach88/mvsync/internal/ir"

// Row is the displayed state of one todo row, flattened for drawing.
type Row struct {
	Model     ir.Handle
	Root      ir.Handle
	Checkmark ir.Handle
	Text      ir.Handle
	TextLabel ir.Handle
	Deleter   ir.Handle

	Glyph        string
	Label        string
	DeleterGlyph string
	LabelStyle   ir.Style // completed or normal
	TextStyle    ir.Style // editing or normal
	Editable     bool
}

// Rows returns the todo rows in the todo-list slot, in display order.
// Rows whose subtree is incomplete are skipped.
func (s *Scene) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Row
	for _, root := range s.roots[ir.SlotTodoList] {
		check := s.find(root, ir.RoleTodoCheckmarkLabel)
		text := s.find(root, ir.RoleTodoText)
		label := s.find(root, ir.RoleTodoTextLabel)
		deleter := s.find(root, ir.RoleTodoDeleterLabel)
		if check == nil || text == nil || label == nil || deleter == nil {
			continue
		}
		out = append(out, Row{
			Model:        s.nodes[root].Model,
			Root:         root,
			Checkmark:    check.Parent.View,
			Text:         text.View,
			TextLabel:    label.View,
			Deleter:      deleter.Parent.View,
			Glyph:        check.Text,
			Label:        label.Text,
			DeleterGlyph: deleter.Text,
			LabelStyle:   label.Style,
			TextStyle:    text.Style,
			Editable:     label.Editable,
		})
	}
	return out
}

// InputField is the displayed state of the input box.
type InputField struct {
	Box      ir.Handle
	Label    ir.Handle
	Text     string
	Style    ir.Style
	Editable bool
}

// Input returns the input field, if it has been materialized.
func (s *Scene) Input() (InputField, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, root := range s.roots[ir.SlotInput] {
		label := s.find(root, ir.RoleInputLabel)
		if label == nil {
			continue
		}
		return InputField{
			Box:      root,
			Label:    label.View,
			Text:     label.Text,
			Style:    s.nodes[root].Style,
			Editable: label.Editable,
		}, true
	}
	return InputField{}, false
}
