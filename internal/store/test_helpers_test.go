package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/ir"
)

// createTestStore opens a journal in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession registers token with the required slots.
func createTestSession(t *testing.T, s *Store, token string) {
	t.Helper()
	require.NoError(t, s.BeginSession(context.Background(), token, ir.RequiredSlots))
}

func h(index, gen uint32) ir.Handle {
	return ir.Handle{Index: index, Gen: gen}
}

// createTestTick builds a tick record exercising every journaled column.
func createTestTick(session string, tick int64) ir.TickRecord {
	return ir.TickRecord{
		Session: session,
		Tick:    tick,
		Inputs: []ir.Notification{
			ir.TextChanged{View: h(1, 1), Text: "milk"},
			ir.KeyPressed{Key: ir.KeyEnter},
			ir.Dispatch{Action: ir.Create{Model: ir.ModelTodo, Text: "eggs"}},
		},
		Applied: []ir.Action{
			ir.UpdateText{Model: h(0, 1), Text: "milk"},
			ir.Create{Model: ir.ModelTodo, Text: "milk"},
		},
		Skipped: []ir.SkippedAction{
			{Action: ir.Delete{Model: h(7, 2)}, Code: "STALE_HANDLE", Reason: "handle 7:2 is stale"},
		},
		Deferred: 1,
		Effects:  9,
		Focus:    h(1, 1),
		Digest:   "d1",
	}
}
