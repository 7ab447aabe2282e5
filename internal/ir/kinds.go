package ir

import "strings"

// ModelKind distinguishes the two kinds of model record.
type ModelKind string

const (
	// ModelTodo is one logical todo item.
	ModelTodo ModelKind = "todo"
	// ModelInput is the long-lived "new todo" composition buffer.
	ModelInput ModelKind = "input"
)

// Valid reports whether k is a known model kind.
func (k ModelKind) Valid() bool {
	return k == ModelTodo || k == ModelInput
}

// Role tags a view record with the part of the interface it plays.
type Role string

const (
	RoleTodoRow            Role = "todo-row"
	RoleTodoCheckmark      Role = "todo-checkmark"
	RoleTodoCheckmarkLabel Role = "todo-checkmark-label"
	RoleTodoText           Role = "todo-text"
	RoleTodoTextLabel      Role = "todo-text-label"
	RoleTodoDeleter        Role = "todo-deleter"
	RoleTodoDeleterLabel   Role = "todo-deleter-label"
	RoleInputBox           Role = "input-box"
	RoleInputLabel         Role = "input-label"
)

// Roles lists every role in a stable order.
var Roles = []Role{
	RoleTodoRow,
	RoleTodoCheckmark,
	RoleTodoCheckmarkLabel,
	RoleTodoText,
	RoleTodoTextLabel,
	RoleTodoDeleter,
	RoleTodoDeleterLabel,
	RoleInputBox,
	RoleInputLabel,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label reports whether r is a text-bearing label nested inside a button.
func (r Role) Label() bool {
	return strings.HasSuffix(string(r), "-label")
}

// Button returns the interactive parent role of a label role.
// Non-label roles are returned unchanged.
func (r Role) Button() Role {
	switch r {
	case RoleInputLabel:
		return RoleInputBox
	case RoleTodoCheckmarkLabel, RoleTodoTextLabel, RoleTodoDeleterLabel:
		return Role(strings.TrimSuffix(string(r), "-label"))
	default:
		return r
	}
}

// Focusable reports whether a view of this role may hold the input focus.
func (r Role) Focusable() bool {
	return r == RoleTodoTextLabel || r == RoleInputLabel
}

// Slot names a singleton container the UI collaborator builds at bootstrap.
// Root views are inserted into slots; every other view has a view parent.
type Slot string

const (
	SlotInput    Slot = "input"
	SlotTodoList Slot = "todo-list"
)

// RequiredSlots are the containers the engine refuses to start without.
var RequiredSlots = []Slot{SlotInput, SlotTodoList}

// Parent is where a view is attached: either another view or a slot.
// Exactly one of View and Slot is set.
type Parent struct {
	View Handle `json:"view,omitempty"`
	Slot Slot   `json:"slot,omitempty"`
}

// InView returns a Parent that attaches under view h.
func InView(h Handle) Parent { return Parent{View: h} }

// InSlot returns a Parent that attaches into slot s.
func InSlot(s Slot) Parent { return Parent{Slot: s} }

// IsSlot reports whether the parent is a container slot.
func (p Parent) IsSlot() bool { return p.Slot != "" }

func (p Parent) String() string {
	if p.IsSlot() {
		return "slot:" + string(p.Slot)
	}
	return "view:" + p.View.String()
}

// Field names a model field.
type Field uint8

const (
	FieldText Field = 1 << iota
	FieldChecked
	FieldEditing
)

func (f Field) String() string {
	switch f {
	case FieldText:
		return "text"
	case FieldChecked:
		return "checked"
	case FieldEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// FieldSet is a bit set of fields.
type FieldSet uint8

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool { return s&FieldSet(f) != 0 }

// With returns the set with f added.
func (s FieldSet) With(f Field) FieldSet { return s | FieldSet(f) }

// Style is the abstract visual style token applied to a view.
type Style string

const (
	StyleNormal    Style = "normal"
	StyleCompleted Style = "completed"
	StyleEditing   Style = "editing"
)

// Key is a key the core cares about.
type Key string

const (
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
)

// Glyphs are the fixed texts displayed by checkmark and deleter views.
type Glyphs struct {
	Checked   string
	Unchecked string
	Deleter   string
}

// DefaultGlyphs returns the stock glyph set.
func DefaultGlyphs() Glyphs {
	return Glyphs{Checked: "[x]", Unchecked: "[ ]", Deleter: "x"}
}

// Checkmark returns the glyph for a checked state.
func (g Glyphs) Checkmark(checked bool) string {
	if checked {
		return g.Checked
	}
	return g.Unchecked
}

// CompletedStyle returns the text style for a checked state.
func CompletedStyle(checked bool) Style {
	if checked {
		return StyleCompleted
	}
	return StyleNormal
}

// EditingStyle returns the button style for an editing state.
func EditingStyle(editing bool) Style {
	if editing {
		return StyleEditing
	}
	return StyleNormal
}
