package ir

// Effect is an outbound instruction to the rendering collaborator.
// The engine batches every effect produced during a tick and hands the
// batch to the renderer once the tick completes.
//
// Sealed - only the types in this file implement it.
type Effect interface {
	// Kind returns the effect's discriminator.
	Kind() string
	effect()
}

// CreateView asks the renderer to create a node for a new view record.
// Parents are always created before their children within a batch.
type CreateView struct {
	View   Handle
	Role   Role
	Model  Handle
	Parent Parent
	Text   string
	Style  Style
}

// SetText replaces the displayed text of a view.
type SetText struct {
	View Handle
	Text string
}

// SetStyle replaces the style token of a view.
type SetStyle struct {
	View  Handle
	Style Style
}

// SetEditable toggles whether a view currently accepts text input.
type SetEditable struct {
	View     Handle
	Editable bool
}

// DestroyView removes a view node. Children are destroyed before parents.
type DestroyView struct {
	View Handle
}

// RequestFocus moves the renderer's input cursor. Nil clears it.
type RequestFocus struct {
	View Handle
}

// SetViewport passes window metrics through to the renderer.
type SetViewport struct {
	Width  int
	Height int
}

func (CreateView) effect()   {}
func (SetText) effect()      {}
func (SetStyle) effect()     {}
func (SetEditable) effect()  {}
func (DestroyView) effect()  {}
func (RequestFocus) effect() {}
func (SetViewport) effect()  {}

func (CreateView) Kind() string   { return "create_view" }
func (SetText) Kind() string      { return "set_text" }
func (SetStyle) Kind() string     { return "set_style" }
func (SetEditable) Kind() string  { return "set_editable" }
func (DestroyView) Kind() string  { return "destroy_view" }
func (RequestFocus) Kind() string { return "request_focus" }
func (SetViewport) Kind() string  { return "set_viewport" }
