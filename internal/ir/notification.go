package ir

// Notification is an inbound event from the UI collaborator (or from
// bootstrap/replay via Dispatch). Notifications are consumed by the intake
// phase of the next tick.
//
// Sealed - only Pointer, TextChanged, KeyPressed, Resize and Dispatch implement it.
type Notification interface {
	// Kind returns the notification's discriminator.
	Kind() string
	notification()
}

// Pointer reports that the interaction state of a view changed.
// Only transitions to Pressed trigger behavior.
type Pointer struct {
	View    Handle
	Pressed bool
}

// TextChanged reports the new full text of a view after typing.
type TextChanged struct {
	View Handle
	Text string
}

// KeyPressed reports a key the core cares about.
type KeyPressed struct {
	Key Key
}

// Resize reports window metrics. The core passes them through untouched.
type Resize struct {
	Width  int
	Height int
}

// Dispatch injects an action directly into the action queue.
// Used by bootstrap (creating the input model) and by replay.
type Dispatch struct {
	Action Action
}

func (Pointer) notification()     {}
func (TextChanged) notification() {}
func (KeyPressed) notification()  {}
func (Resize) notification()      {}
func (Dispatch) notification()    {}

func (Pointer) Kind() string     { return "pointer" }
func (TextChanged) Kind() string { return "text_changed" }
func (KeyPressed) Kind() string  { return "key_pressed" }
func (Resize) Kind() string      { return "resize" }
func (Dispatch) Kind() string    { return "dispatch" }
