package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/mvsync/internal/ir"
)

// AssertionError is a failed expectation.
type AssertionError struct {
	Type     string // expectation that failed
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual:   %s", e.Actual)
	return buf.String()
}

func (r *runner) fail(kind, expected, actual string) {
	r.result.AddError((&AssertionError{Type: kind, Expected: expected, Actual: actual}).Error())
}

// checkExpect evaluates the scenario's expectations against the final
// state.
func (r *runner) checkExpect() {
	exp := r.scenario.Expect
	snap := r.engine.Snapshot()

	if exp.Todos != nil {
		r.checkTodos(snap, exp.Todos)
	}
	if exp.Focus != nil {
		r.checkFocus(snap, *exp.Focus)
	}
	for _, v := range exp.Views {
		r.checkView(snap, v)
	}
	if exp.ViewCount != nil && *exp.ViewCount != len(snap.Views) {
		r.fail("view_count", fmt.Sprint(*exp.ViewCount), fmt.Sprint(len(snap.Views)))
	}
	if exp.Skipped != nil {
		r.checkSkipped(exp.Skipped)
	}
}

func (r *runner) checkTodos(snap ir.Snapshot, want []TodoExpect) {
	got := todoOrder(snap, r.scene)
	if len(got) != len(want) {
		r.fail("todos", fmt.Sprintf("%d todos", len(want)), describeTodos(got))
		return
	}
	for i, w := range want {
		g := got[i]
		if g.Text != w.Text {
			r.fail(fmt.Sprintf("todos[%d].text", i), fmt.Sprintf("%q", w.Text), fmt.Sprintf("%q", g.Text))
		}
		if w.Checked != nil && *w.Checked != g.Checked {
			r.fail(fmt.Sprintf("todos[%d].checked", i), fmt.Sprint(*w.Checked), fmt.Sprint(g.Checked))
		}
		if w.Editing != nil && *w.Editing != g.Editing {
			r.fail(fmt.Sprintf("todos[%d].editing", i), fmt.Sprint(*w.Editing), fmt.Sprint(g.Editing))
		}
	}
}

func describeTodos(todos []ir.ModelState) string {
	parts := make([]string, len(todos))
	for i, m := range todos {
		parts[i] = fmt.Sprintf("%q(checked=%t)", m.Text, m.Checked)
	}
	return fmt.Sprintf("%d todos [%s]", len(todos), strings.Join(parts, ", "))
}

func (r *runner) checkFocus(snap ir.Snapshot, want FocusExpect) {
	actual := r.describeView(snap, snap.Focus)
	if want.None {
		if !snap.Focus.IsNil() {
			r.fail("focus", "none", actual)
		}
		return
	}
	h, err := resolveView(snap, r.scene, want.Target)
	if err != nil {
		r.fail("focus", want.String(), fmt.Sprintf("%s (%v)", actual, err))
		return
	}
	if h != snap.Focus {
		r.fail("focus", want.String(), actual)
	}
}

func (r *runner) describeView(snap ir.Snapshot, h ir.Handle) string {
	if h.IsNil() {
		return "none"
	}
	v, ok := viewState(snap, h)
	if !ok {
		return "dead view " + h.String()
	}
	if m, ok := snap.Model(v.Model); ok && m.Kind == ir.ModelTodo {
		return fmt.Sprintf("%s of %q", v.Role, m.Text)
	}
	return string(v.Role)
}

func (r *runner) checkView(snap ir.Snapshot, want ViewExpect) {
	name := "views " + want.Target.String()
	h, err := resolveView(snap, r.scene, want.Target)
	if err != nil {
		r.fail(name, "view exists", err.Error())
		return
	}
	v, _ := viewState(snap, h)
	if want.Text != nil && *want.Text != v.Text {
		r.fail(name+" text", fmt.Sprintf("%q", *want.Text), fmt.Sprintf("%q", v.Text))
	}
	if want.Style != nil && *want.Style != v.Style {
		r.fail(name+" style", string(*want.Style), string(v.Style))
	}
	if want.Editable != nil && *want.Editable != v.Editable {
		r.fail(name+" editable", fmt.Sprint(*want.Editable), fmt.Sprint(v.Editable))
	}
}

// checkSkipped compares the codes of every skipped action across all ticks.
func (r *runner) checkSkipped(want []string) {
	got := []string{}
	for _, tr := range r.result.Trace {
		for _, s := range tr.Skipped {
			code, _, _ := strings.Cut(s, " ")
			got = append(got, code)
		}
	}
	if !slices.Equal(want, got) {
		r.fail("skipped", fmt.Sprint(want), fmt.Sprint(got))
	}
}
