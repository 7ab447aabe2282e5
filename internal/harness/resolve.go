package harness

import (
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/scene"
)

// todoOrder returns the live todo models in on-screen order. Handle order
// is not creation order once slots are reused, so the scene's row order is
// used.
func todoOrder(snap ir.Snapshot, sc *scene.Scene) []ir.ModelState {
	rows := sc.Rows()
	out := make([]ir.ModelState, 0, len(rows))
	for _, row := range rows {
		if m, ok := snap.Model(row.Model); ok {
			out = append(out, m)
		}
	}
	return out
}

// todoByText returns the first todo on screen whose text is text.
func todoByText(snap ir.Snapshot, sc *scene.Scene, text string) (ir.Handle, error) {
	for _, m := range todoOrder(snap, sc) {
		if m.Text == text {
			return m.Handle, nil
		}
	}
	return ir.Nil, fmt.Errorf("no todo with text %q", text)
}

func inputModel(snap ir.Snapshot) (ir.Handle, error) {
	for _, m := range snap.Models {
		if m.Kind == ir.ModelInput {
			return m.Handle, nil
		}
	}
	return ir.Nil, fmt.Errorf("no input model")
}

// resolveView finds the view a target names.
func resolveView(snap ir.Snapshot, sc *scene.Scene, t Target) (ir.Handle, error) {
	var (
		model ir.Handle
		err   error
	)
	if t.Todo == "" {
		model, err = inputModel(snap)
	} else {
		model, err = todoByText(snap, sc, t.Todo)
	}
	if err != nil {
		return ir.Nil, err
	}
	for _, v := range snap.ViewsOf(model) {
		if v.Role == t.Role {
			return v.Handle, nil
		}
	}
	return ir.Nil, fmt.Errorf("no %s view", t)
}

func viewState(snap ir.Snapshot, h ir.Handle) (ir.ViewState, bool) {
	for _, v := range snap.Views {
		if v.Handle == h {
			return v, true
		}
	}
	return ir.ViewState{}, false
}
