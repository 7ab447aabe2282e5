package harness

import (
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// todoRoles is the view subtree every todo model owns.
var todoRoles = []ir.Role{
	ir.RoleTodoRow,
	ir.RoleTodoCheckmark,
	ir.RoleTodoCheckmarkLabel,
	ir.RoleTodoText,
	ir.RoleTodoTextLabel,
	ir.RoleTodoDeleter,
	ir.RoleTodoDeleterLabel,
}

var inputRoles = []ir.Role{ir.RoleInputBox, ir.RoleInputLabel}

// checkInvariants verifies the properties that hold at every settled tick
// boundary, whatever the scenario did.
func (r *runner) checkInvariants(when string) {
	snap := r.engine.Snapshot()
	for _, err := range Invariants(snap) {
		r.result.AddError(fmt.Sprintf("%s: invariant: %v", when, err))
	}
	for _, err := range r.sceneAgrees(snap) {
		r.result.AddError(fmt.Sprintf("%s: scene: %v", when, err))
	}
}

// Invariants returns every violated standing property of a settled
// snapshot.
func Invariants(snap ir.Snapshot) []error {
	var errs []error
	views := make(map[ir.Handle]ir.ViewState, len(snap.Views))
	for _, v := range snap.Views {
		views[v.Handle] = v
	}

	// Focus names a live, focusable view.
	if !snap.Focus.IsNil() {
		v, ok := views[snap.Focus]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("focus %s is not a live view", snap.Focus))
		case !v.Role.Focusable():
			errs = append(errs, fmt.Errorf("focus %s has unfocusable role %s", snap.Focus, v.Role))
		}
	}

	// At most one editable view, and only the focused one.
	for _, v := range snap.Views {
		if v.Editable && v.Handle != snap.Focus {
			errs = append(errs, fmt.Errorf("view %s (%s) is editable without focus", v.Handle, v.Role))
		}
	}
	if v, ok := views[snap.Focus]; ok && !v.Editable {
		errs = append(errs, fmt.Errorf("focused view %s is not editable", v.Handle))
	}

	// No view outlives its model.
	for _, v := range snap.Views {
		if _, ok := snap.Model(v.Model); !ok {
			errs = append(errs, fmt.Errorf("view %s (%s) references dead model %s", v.Handle, v.Role, v.Model))
		}
	}

	inputs := 0
	for _, m := range snap.Models {
		want := todoRoles
		if m.Kind == ir.ModelInput {
			inputs++
			want = inputRoles
		}
		if err := subtreeComplete(snap, m, want); err != nil {
			errs = append(errs, err)
		}

		// Editing follows focus once the tick has settled.
		focused := false
		if v, ok := views[snap.Focus]; ok {
			focused = v.Model == m.Handle
		}
		if m.Editing != focused {
			errs = append(errs, fmt.Errorf("model %s editing=%t but focused=%t", m.Handle, m.Editing, focused))
		}
	}
	if inputs != 1 {
		errs = append(errs, fmt.Errorf("%d input models, want 1", inputs))
	}
	return errs
}

func subtreeComplete(snap ir.Snapshot, m ir.ModelState, want []ir.Role) error {
	counts := make(map[ir.Role]int, len(want))
	for _, v := range snap.ViewsOf(m.Handle) {
		counts[v.Role]++
	}
	for _, role := range want {
		if counts[role] != 1 {
			return fmt.Errorf("%s model %s has %d %s views, want 1", m.Kind, m.Handle, counts[role], role)
		}
	}
	if n := len(snap.ViewsOf(m.Handle)); n != len(want) {
		return fmt.Errorf("%s model %s has %d views, want %d", m.Kind, m.Handle, n, len(want))
	}
	return nil
}

// sceneAgrees checks the renderer-side mirror against the record store.
func (r *runner) sceneAgrees(snap ir.Snapshot) []error {
	var errs []error
	if err := r.scene.Err(); err != nil {
		errs = append(errs, err)
	}
	if n := r.scene.Len(); n != len(snap.Views) {
		errs = append(errs, fmt.Errorf("%d nodes, %d views", n, len(snap.Views)))
	}
	if f := r.scene.Focus(); f != snap.Focus {
		errs = append(errs, fmt.Errorf("focus %s, records say %s", f, snap.Focus))
	}
	for _, v := range snap.Views {
		n, ok := r.scene.Node(v.Handle)
		if !ok {
			errs = append(errs, fmt.Errorf("view %s (%s) not displayed", v.Handle, v.Role))
			continue
		}
		if n.Text != v.Text || n.Style != v.Style || n.Editable != v.Editable {
			errs = append(errs, fmt.Errorf("view %s (%s) displays %q/%s/%t, records %q/%s/%t",
				v.Handle, v.Role, n.Text, n.Style, n.Editable, v.Text, v.Style, v.Editable))
		}
	}
	return errs
}
