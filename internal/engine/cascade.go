package engine

import (
	"log/slog"

	"github.com/roach88/mvsync/internal/ir"
)

// cascade destroys the views of every model removed this tick, then closes
// the tick.
//
// Each view subtree is destroyed children first. If focus pointed into a
// destroyed subtree it is cleared. After the flush no view may reference a
// dead model; any that does is reported as DANGLING_BACK_REFERENCE.
func (e *Engine) cascade(t *tick, log *slog.Logger) error {
	focusHit := false
	for _, m := range e.records.Removed() {
		views := e.records.ViewsOf(m)
		owned := make(map[ir.Handle]bool, len(views))
		for _, v := range views {
			owned[v] = true
		}
		for _, vh := range views {
			v, err := e.records.View(vh)
			if err != nil {
				continue
			}
			if p := v.Parent(); !p.IsSlot() && owned[p.View] {
				continue // destroyed with its root
			}
			if e.destroySubtree(t, vh) {
				focusHit = true
			}
		}
		log.Debug("model views cascaded", "model", m, "views", len(views))
	}

	if focusHit {
		log.Debug("focus cleared by cascade", "view", e.focus)
		e.focus = ir.Nil
		t.emit(ir.RequestFocus{View: ir.Nil})
	}

	res := e.records.Flush()
	t.report.Destroyed = append(t.report.Destroyed, res.Destroyed...)

	var err error
	if dangling := e.records.Dangling(); len(dangling) > 0 {
		err = NewDanglingError(t.n, dangling)
		log.Error("invariant violated", "error", err)
	}
	e.records.EndTick()
	return err
}

// destroySubtree stages h and its descendants for destruction, emitting
// DestroyView children first. It reports whether the focused view was hit.
func (e *Engine) destroySubtree(t *tick, h ir.Handle) bool {
	if e.records.Pending(h) {
		return false
	}
	v, err := e.records.View(h)
	if err != nil {
		return false
	}
	hit := false
	for _, c := range v.Children() {
		if e.destroySubtree(t, c) {
			hit = true
		}
	}
	if err := e.records.Despawn(h); err != nil {
		return hit
	}
	t.emit(ir.DestroyView{View: h})
	return hit || h == e.focus
}
