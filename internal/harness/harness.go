package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/roach88/mvsync/internal/engine"
	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/scene"
	"github.com/roach88/mvsync/internal/store"
	"github.com/roach88/mvsync/internal/testutil"
)

// Option configures Run.
type Option func(*options)

type options struct {
	goldenDir string
}

// WithGoldenDir compares the final render against <dir>/<golden>.golden
// when the scenario names a golden. Tests use RunWithGolden instead.
func WithGoldenDir(dir string) Option {
	return func(o *options) { o.goldenDir = dir }
}

// Run executes a scenario on a fresh engine and returns the result.
//
// Each scenario runs against its own in-memory journal. The session token
// is the scenario name, so repeated runs journal identical sessions.
//
// Execution flow:
//  1. Start the engine (bootstrap creates and focuses the input)
//  2. Run each step: submit, tick, settle, check invariants
//  3. Check expectations against the final state
//  4. Replay the journal on a fresh engine and compare digests
//
// A non-nil error means the harness itself failed; scenario failures are
// reported through Result.
func Run(ctx context.Context, s *Scenario, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("create in-memory journal: %w", err)
	}
	defer st.Close()

	r := &runner{
		scenario: s,
		result:   NewResult(s.Name),
		scene:    scene.New(ir.RequiredSlots...),
		tap:      &tapJournal{next: st, step: -1},
	}
	r.engine = engine.New(r.scene, r.engineOptions(engine.WithJournal(r.tap))...)

	if err := r.engine.Start(ctx, ir.RequiredSlots); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	r.checkInvariants("bootstrap")

	for i, step := range s.Steps {
		r.tap.setStep(i)
		if err := r.run(ctx, step); err != nil {
			r.result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
			break
		}
		r.checkInvariants(fmt.Sprintf("steps[%d]", i))
	}

	r.result.Trace = r.tap.traces()
	r.result.Render = r.scene.Render()
	r.checkExpect()
	if err := r.checkGoldenFile(o.goldenDir); err != nil {
		r.result.AddError(err.Error())
	}
	if err := r.replay(ctx, st); err != nil {
		return nil, err
	}
	return r.result, nil
}

type runner struct {
	scenario *Scenario
	result   *Result
	scene    *scene.Scene
	engine   *engine.Engine
	tap      *tapJournal
}

func (r *runner) engineOptions(extra ...engine.Option) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(engine.DiscardLogger()),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(r.scenario.Name)),
		engine.WithGlyphs(r.scenario.Glyphs.glyphs()),
	}
	if n := r.scenario.MaxActionsPerTick; n != nil {
		opts = append(opts, engine.WithMaxActionsPerTick(*n))
	}
	return append(opts, extra...)
}

// run executes one step.
func (r *runner) run(ctx context.Context, step Step) error {
	if step.Tick > 0 {
		for i := 0; i < step.Tick; i++ {
			if _, err := r.engine.Tick(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	note, err := r.notification(step)
	if err != nil {
		return err
	}
	r.engine.Submit(note)
	if _, err := r.engine.Tick(ctx); err != nil {
		return err
	}
	return r.engine.Settle(ctx)
}

// notification translates a step into the notification a UI would send.
func (r *runner) notification(step Step) (ir.Notification, error) {
	switch {
	case step.Type != nil:
		focus := r.engine.Focus()
		if focus.IsNil() {
			return nil, fmt.Errorf("type %q: nothing is focused", *step.Type)
		}
		return ir.TextChanged{View: focus, Text: *step.Type}, nil

	case step.Key != "":
		return ir.KeyPressed{Key: step.Key}, nil

	case step.Press != nil:
		view, err := resolveView(r.engine.Snapshot(), r.scene, *step.Press)
		if err != nil {
			return nil, fmt.Errorf("press: %w", err)
		}
		return ir.Pointer{View: view, Pressed: true}, nil

	case step.Dispatch != nil:
		a, err := r.action(*step.Dispatch)
		if err != nil {
			return nil, fmt.Errorf("dispatch: %w", err)
		}
		return ir.Dispatch{Action: a}, nil

	case step.Resize != nil:
		return ir.Resize{Width: step.Resize.Width, Height: step.Resize.Height}, nil
	}
	return nil, fmt.Errorf("empty step")
}

func (r *runner) action(d DispatchStep) (ir.Action, error) {
	if d.Create != nil {
		return ir.Create{Model: ir.ModelTodo, Text: *d.Create}, nil
	}
	snap := r.engine.Snapshot()
	switch {
	case d.Delete != "":
		m, err := todoByText(snap, r.scene, d.Delete)
		return ir.Delete{Model: m}, err
	case d.Check != "":
		m, err := todoByText(snap, r.scene, d.Check)
		return ir.UpdateChecked{Model: m, Checked: true}, err
	default:
		m, err := todoByText(snap, r.scene, d.Uncheck)
		return ir.UpdateChecked{Model: m, Checked: false}, err
	}
}

// checkGoldenFile compares the render against a golden file on disk.
func (r *runner) checkGoldenFile(dir string) error {
	name := r.scenario.Expect.Golden
	if dir == "" || name == "" {
		return nil
	}
	path := filepath.Join(dir, name+".golden")
	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("golden %s: %w", name, err)
	}
	if string(want) != r.result.Render {
		return &AssertionError{
			Type:     "golden",
			Expected: string(want),
			Actual:   r.result.Render,
		}
	}
	return nil
}

// replay re-runs the journaled session on a fresh engine.
func (r *runner) replay(ctx context.Context, st *store.Store) error {
	token := r.engine.Session()
	records, err := st.Ticks(ctx, token)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	slots, err := st.Slots(ctx, token)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	res, err := engine.Replay(ctx, slots, records, r.engineOptions()...)
	if err != nil {
		r.result.AddError(fmt.Sprintf("replay: %v", err))
		return nil
	}
	r.result.Replayed = res.Ticks
	if res.Diverged {
		r.result.AddError(fmt.Sprintf("replay diverged at tick %d: journaled %s, replayed %s", res.Tick, res.Want, res.Got))
	}
	return nil
}

// tapJournal forwards to the store and keeps a trace of every tick tagged
// with the step that ran it.
type tapJournal struct {
	next engine.Journal

	mu    sync.Mutex
	step  int
	trace []TickTrace
}

func (j *tapJournal) setStep(i int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.step = i
}

func (j *tapJournal) traces() []TickTrace {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]TickTrace{}, j.trace...)
}

// BeginSession implements engine.Journal.
func (j *tapJournal) BeginSession(ctx context.Context, token string, slots []ir.Slot) error {
	return j.next.BeginSession(ctx, token, slots)
}

// RecordTick implements engine.Journal.
func (j *tapJournal) RecordTick(ctx context.Context, rec ir.TickRecord) error {
	j.mu.Lock()
	j.trace = append(j.trace, traceOf(j.step, rec))
	j.mu.Unlock()
	return j.next.RecordTick(ctx, rec)
}
