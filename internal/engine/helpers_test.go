package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/testutil"
)

// startEngine starts an engine with both slots, a recording renderer and a
// discard logger. The bootstrap has settled when it returns.
func startEngine(t *testing.T, opts ...Option) (*Engine, *testutil.RecordingRenderer) {
	t.Helper()
	r := &testutil.RecordingRenderer{}
	base := []Option{
		WithLogger(DiscardLogger()),
		WithSessionGenerator(testutil.NewFixedSessionGenerator("")),
	}
	e := New(r, append(base, opts...)...)
	require.NoError(t, e.Start(context.Background(), ir.RequiredSlots))
	return e, r
}

// step submits notifications, runs one tick and settles carried work.
// It returns the report of the first tick.
func step(t *testing.T, e *Engine, notes ...ir.Notification) TickReport {
	t.Helper()
	for _, n := range notes {
		require.True(t, e.Submit(n))
	}
	rep, err := e.Tick(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.Settle(context.Background()))
	return rep
}

// dispatch runs one tick applying actions.
func dispatch(t *testing.T, e *Engine, actions ...ir.Action) TickReport {
	t.Helper()
	notes := make([]ir.Notification, len(actions))
	for i, a := range actions {
		notes[i] = ir.Dispatch{Action: a}
	}
	return step(t, e, notes...)
}

// submitTodo types text into the input and presses Enter.
// The input label must be focused.
func submitTodo(t *testing.T, e *Engine, text string) ir.Handle {
	t.Helper()
	before := len(e.Snapshot().Todos())
	step(t, e, ir.TextChanged{View: e.Focus(), Text: text}, ir.KeyPressed{Key: ir.KeyEnter})
	todos := e.Snapshot().Todos()
	require.Len(t, todos, before+1)
	return todos[len(todos)-1].Handle
}

func todo(t *testing.T, snap ir.Snapshot, h ir.Handle) ir.ModelState {
	t.Helper()
	m, ok := snap.Model(h)
	require.True(t, ok, "model %s not found", h)
	return m
}

// viewOf returns the view of role r bound to model.
func viewOf(t *testing.T, snap ir.Snapshot, model ir.Handle, r ir.Role) ir.ViewState {
	t.Helper()
	for _, v := range snap.ViewsOf(model) {
		if v.Role == r {
			return v
		}
	}
	t.Fatalf("no %s view for model %s", r, model)
	return ir.ViewState{}
}

func inputModel(t *testing.T, snap ir.Snapshot) ir.ModelState {
	t.Helper()
	for _, m := range snap.Models {
		if m.Kind == ir.ModelInput {
			return m
		}
	}
	t.Fatal("no input model")
	return ir.ModelState{}
}

func editableCount(snap ir.Snapshot) int {
	n := 0
	for _, v := range snap.Views {
		if v.Editable {
			n++
		}
	}
	return n
}

// memJournal is an in-memory Journal.
type memJournal struct {
	mu       sync.Mutex
	sessions []string
	slots    []ir.Slot
	ticks    []ir.TickRecord
	failTick bool
}

func (j *memJournal) BeginSession(_ context.Context, token string, slots []ir.Slot) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sessions = append(j.sessions, token)
	j.slots = slots
	return nil
}

func (j *memJournal) RecordTick(_ context.Context, rec ir.TickRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failTick {
		return errJournal
	}
	j.ticks = append(j.ticks, rec)
	return nil
}

func (j *memJournal) records() []ir.TickRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]ir.TickRecord(nil), j.ticks...)
}

var errJournal = &RuntimeError{Code: "JOURNAL", Message: "disk full"}
