package ir

// SkippedAction is an action the mutator dropped, with the diagnostic code
// explaining why.
type SkippedAction struct {
	Action Action
	Code   string
	Reason string
}

// TickRecord is what the engine journals for one completed tick.
//
// Inputs are the notifications drained at intake, in arrival order. Replay
// re-submits them to a fresh engine and compares Digest tick by tick.
type TickRecord struct {
	Session  string
	Tick     int64
	Inputs   []Notification
	Applied  []Action
	Skipped  []SkippedAction
	Deferred int
	Effects  int
	Focus    Handle
	Digest   string
}
