package engine

import (
	"log/slog"

	"github.com/roach88/mvsync/internal/ir"
)

// Focus is the single-focus state threaded through one tick.
//
// Committed is the focus as of the previous tick. Intake reads it and never
// the value being decided in the current tick. Requests accumulate in
// arrival order from intake and then from the materializer; the focus
// coordinator resolves them with last writer wins.
type Focus struct {
	committed ir.Handle
	cursor    ir.Handle // where intake's own requests leave focus
	requests  []focusRequest
}

type focusRequest struct {
	view   ir.Handle // Nil clears focus
	origin string
}

func newFocus(committed ir.Handle) *Focus {
	return &Focus{committed: committed, cursor: committed}
}

// Committed returns the focus as of the previous tick.
func (f *Focus) Committed() ir.Handle { return f.committed }

// Cursor returns the focus the requests made so far would produce.
func (f *Focus) Cursor() ir.Handle { return f.cursor }

// Request records a SetFocus request.
func (f *Focus) Request(view ir.Handle, origin string) {
	f.requests = append(f.requests, focusRequest{view: view, origin: origin})
	f.cursor = view
}

// coordinateFocus resolves this tick's focus requests.
//
// Requests naming a dead or unfocusable view are dropped. When focus moves,
// the previous view becomes non-editable before the new one becomes
// editable, so at most one view is editable at any tick boundary. Model
// editing flags that disagree with the new focus are corrected by Edit
// actions carried into the next tick.
func (e *Engine) coordinateFocus(t *tick, log *slog.Logger) {
	final, requested := e.focus, false
	for _, req := range t.focus.requests {
		if !req.view.IsNil() {
			v, err := e.records.View(req.view)
			if err != nil {
				log.Warn("focus request skipped",
					"origin", req.origin,
					"error", NewStaleHandleError(t.n, req.view, err))
				continue
			}
			if !v.Role().Focusable() {
				log.Warn("focus request skipped",
					"origin", req.origin,
					"view", req.view,
					"role", v.Role(),
					"reason", "role is not focusable")
				continue
			}
		}
		final, requested = req.view, true
	}
	if !requested || final == e.focus {
		return
	}

	prev := e.focus
	if v, err := e.records.View(prev); err == nil {
		v.Editable = false
		t.emit(ir.SetEditable{View: prev, Editable: false})
		e.carryEdit(v.Model(), false)
	}
	if v, err := e.records.View(final); err == nil {
		v.Editable = true
		t.emit(ir.SetEditable{View: final, Editable: true})
		e.carryEdit(v.Model(), true)
	}
	e.focus = final
	t.emit(ir.RequestFocus{View: final})
	log.Debug("focus changed", "from", prev, "to", final)
}

// carryEdit queues Edit(model, editing) for the next tick if the model's
// flag disagrees.
func (e *Engine) carryEdit(model ir.Handle, editing bool) {
	m, err := e.records.Model(model)
	if err != nil || m.Editing() == editing {
		return
	}
	e.actions = append(e.actions, ir.Edit{Model: model, Editing: editing})
}
