package harness

import (
	"github.com/roach88/mvsync/internal/ir"
)

// TickTrace summarizes one tick for output and debugging.
type TickTrace struct {
	Tick     int64    `json:"tick"`
	Step     int      `json:"step"` // index of the step that ran the tick
	Inputs   int      `json:"inputs"`
	Applied  []string `json:"applied,omitempty"`
	Skipped  []string `json:"skipped,omitempty"`
	Effects  int      `json:"effects"`
	Deferred int      `json:"deferred,omitempty"`
	Focus    string   `json:"focus"`
	Digest   string   `json:"digest"`
}

// traceOf summarizes a journaled tick. Step is -1 for the bootstrap.
func traceOf(step int, rec ir.TickRecord) TickTrace {
	tr := TickTrace{
		Tick:     rec.Tick,
		Step:     step,
		Inputs:   len(rec.Inputs),
		Effects:  rec.Effects,
		Deferred: rec.Deferred,
		Focus:    rec.Focus.String(),
		Digest:   rec.Digest,
	}
	for _, a := range rec.Applied {
		tr.Applied = append(tr.Applied, a.String())
	}
	for _, s := range rec.Skipped {
		tr.Skipped = append(tr.Skipped, s.Code+" "+s.Action.String())
	}
	return tr
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass is true if every expectation and invariant held.
	Pass bool `json:"pass"`

	// Trace lists every tick the scenario ran, bootstrap included.
	Trace []TickTrace `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Render is the final scene outline.
	Render string `json:"render"`

	// Replayed is the number of journaled ticks the replay check verified.
	Replayed int `json:"replayed"`
}

// NewResult creates a passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TickTrace{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
