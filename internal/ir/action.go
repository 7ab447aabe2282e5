package ir

import "fmt"

// Action is an immutable request to mutate model records.
// Actions are queued, consumed once by the mutator, and never stored
// in the record store.
//
// Sealed - only Create, Delete, UpdateText, UpdateChecked and Edit implement it.
type Action interface {
	// Kind returns the action's discriminator ("create", "delete", ...).
	Kind() string
	// Target returns the model handle the action mutates (Nil for Create).
	Target() Handle
	// String renders the action for traces, e.g. create(todo, "a").
	String() string
	action()
}

// Create allocates a new model record with Text and every flag false.
type Create struct {
	Model ModelKind
	Text  string
}

// Delete schedules a model record for destruction at the end of the mutation phase.
type Delete struct {
	Model Handle
}

// UpdateText replaces a model's text.
type UpdateText struct {
	Model Handle
	Text  string
}

// UpdateChecked sets a todo model's checked flag.
type UpdateChecked struct {
	Model   Handle
	Checked bool
}

// Edit sets a model's editing flag.
type Edit struct {
	Model   Handle
	Editing bool
}

func (Create) action()        {}
func (Delete) action()        {}
func (UpdateText) action()    {}
func (UpdateChecked) action() {}
func (Edit) action()          {}

func (Create) Kind() string        { return "create" }
func (Delete) Kind() string        { return "delete" }
func (UpdateText) Kind() string    { return "update_text" }
func (UpdateChecked) Kind() string { return "update_checked" }
func (Edit) Kind() string          { return "edit" }

func (Create) Target() Handle          { return Nil }
func (a Delete) Target() Handle        { return a.Model }
func (a UpdateText) Target() Handle    { return a.Model }
func (a UpdateChecked) Target() Handle { return a.Model }
func (a Edit) Target() Handle          { return a.Model }

func (a Create) String() string        { return fmt.Sprintf("create(%s, %q)", a.Model, a.Text) }
func (a Delete) String() string        { return fmt.Sprintf("delete(%s)", a.Model) }
func (a UpdateText) String() string    { return fmt.Sprintf("update_text(%s, %q)", a.Model, a.Text) }
func (a UpdateChecked) String() string { return fmt.Sprintf("update_checked(%s, %t)", a.Model, a.Checked) }
func (a Edit) String() string          { return fmt.Sprintf("edit(%s, %t)", a.Model, a.Editing) }
