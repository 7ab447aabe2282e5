package engine

import "github.com/roach88/mvsync/internal/ir"

// TickReport summarizes one tick for callers, the harness and the CLI.
type TickReport struct {
	Tick      int64
	Inputs    int
	Applied   []ir.Action
	Skipped   []ir.SkippedAction
	Deferred  int         // actions carried into the next tick
	Created   []ir.Handle // records committed this tick
	Destroyed []ir.Handle // records destroyed this tick
	Effects   []ir.Effect
	Focus     ir.Handle
	Digest    string // snapshot digest at the end of the tick
}

// tick is the working state of one pipeline pass.
type tick struct {
	n       int64
	inputs  []ir.Notification
	focus   *Focus
	effects []ir.Effect
	report  TickReport
}

func newTick(n int64, focus ir.Handle) *tick {
	return &tick{
		n:      n,
		focus:  newFocus(focus),
		report: TickReport{Tick: n},
	}
}

func (t *tick) emit(effects ...ir.Effect) {
	t.effects = append(t.effects, effects...)
}

func (t *tick) skip(a ir.Action, err *RuntimeError) {
	t.report.Skipped = append(t.report.Skipped, ir.SkippedAction{
		Action: a,
		Code:   string(err.Code),
		Reason: err.Message,
	})
}
