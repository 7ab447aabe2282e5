package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mvsync/internal/ir"
)

func hv(i uint32) ir.Handle { return ir.Handle{Index: i, Gen: 1} }

// settledInput is a snapshot right after bootstrap.
func settledInput() ir.Snapshot {
	return ir.Snapshot{
		Models: []ir.ModelState{{Handle: hv(0), Kind: ir.ModelInput, Editing: true}},
		Views: []ir.ViewState{
			{Handle: hv(1), Role: ir.RoleInputBox, Model: hv(0), Parent: ir.InSlot(ir.SlotInput), Style: ir.StyleEditing},
			{Handle: hv(2), Role: ir.RoleInputLabel, Model: hv(0), Parent: ir.InView(hv(1)), Editable: true},
		},
		Focus: hv(2),
	}
}

func TestInvariants_Holds(t *testing.T) {
	assert.Empty(t, Invariants(settledInput()))
}

func TestInvariants_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.Snapshot)
	}{
		{"focus on dead view", func(s *ir.Snapshot) { s.Focus = hv(9) }},
		{"focus on unfocusable role", func(s *ir.Snapshot) {
			s.Focus = hv(1)
			s.Views[1].Editable = false
			s.Views[0].Editable = true
		}},
		{"editable without focus", func(s *ir.Snapshot) { s.Views[0].Editable = true }},
		{"focused but not editable", func(s *ir.Snapshot) { s.Views[1].Editable = false }},
		{"editing without focus", func(s *ir.Snapshot) {
			s.Focus = ir.Nil
			s.Views[1].Editable = false
		}},
		{"dangling view", func(s *ir.Snapshot) { s.Views[0].Model = hv(7) }},
		{"incomplete subtree", func(s *ir.Snapshot) {
			s.Views = s.Views[1:]
		}},
		{"no input model", func(s *ir.Snapshot) {
			s.Models = nil
			s.Views = nil
			s.Focus = ir.Nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := settledInput()
			tt.mutate(&snap)
			assert.NotEmpty(t, Invariants(snap))
		})
	}
}
