package engine

import (
	"log/slog"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/record"
)

// mutate applies queued actions in FIFO order, then flushes.
//
// Delete is deferred: the record stays readable until the flush, so later
// actions in the same batch still see it. An action whose target is gone is
// skipped with a diagnostic and the batch continues.
func (e *Engine) mutate(t *tick, log *slog.Logger) {
	budget := newActionBudget(e.maxActs)

	queue := e.actions
	e.actions = nil
	for i, a := range queue {
		if !budget.Take() {
			e.actions = append(e.actions, queue[i:]...)
			log.Warn("action budget exhausted",
				"error", NewBudgetError(t.n, budget.Used(), len(queue)-i))
			break
		}
		if err := e.apply(t.n, a); err != nil {
			t.skip(a, err)
			log.Warn("action skipped", "action", a, "code", err.Code, "error", err)
			continue
		}
		t.report.Applied = append(t.report.Applied, a)
	}

	res := e.records.Flush()
	t.report.Created = append(t.report.Created, res.Spawned...)
	t.report.Destroyed = append(t.report.Destroyed, res.Destroyed...)
}

// apply performs one action against the record store.
func (e *Engine) apply(n int64, a ir.Action) *RuntimeError {
	switch act := a.(type) {
	case ir.Create:
		return e.applyCreate(n, act)

	case ir.Delete:
		m, err := e.records.Model(act.Model)
		if err != nil {
			return NewStaleHandleError(n, act.Model, err)
		}
		if m.Kind() == ir.ModelInput {
			return NewUnsupportedError(n, a, "the input model is cleared, not destroyed")
		}
		if err := e.records.Despawn(act.Model); err != nil {
			return NewStaleHandleError(n, act.Model, err)
		}
		return nil

	case ir.UpdateText:
		return e.storeErr(n, act.Model, e.records.SetText(act.Model, act.Text))

	case ir.UpdateChecked:
		m, err := e.records.Model(act.Model)
		if err != nil {
			return NewStaleHandleError(n, act.Model, err)
		}
		if m.Kind() != ir.ModelTodo {
			return NewUnsupportedError(n, a, "only todo models have a checked field")
		}
		return e.storeErr(n, act.Model, e.records.SetChecked(act.Model, act.Checked))

	case ir.Edit:
		return e.storeErr(n, act.Model, e.records.SetEditing(act.Model, act.Editing))

	default:
		return NewUnsupportedError(n, a, "unknown action")
	}
}

func (e *Engine) applyCreate(n int64, c ir.Create) *RuntimeError {
	switch c.Model {
	case ir.ModelTodo:
		e.records.Spawn(record.NewModel(ir.ModelTodo, c.Text))
		return nil
	case ir.ModelInput:
		if !e.input.IsNil() {
			return NewDuplicateSingletonError(n, e.input)
		}
		e.input = e.records.Spawn(record.NewModel(ir.ModelInput, c.Text))
		return nil
	default:
		return NewUnsupportedError(n, c, "unknown model kind "+string(c.Model))
	}
}

// storeErr converts a record setter failure, which is always a stale handle.
func (e *Engine) storeErr(n int64, h ir.Handle, err error) *RuntimeError {
	if err == nil {
		return nil
	}
	return NewStaleHandleError(n, h, err)
}
