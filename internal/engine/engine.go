package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/mvsync/internal/ir"
	"github.com/roach88/mvsync/internal/record"
)

// Renderer is the outbound boundary to the UI collaborator. Apply receives
// every effect of one tick, in production order, after the tick completes.
type Renderer interface {
	Apply(effects []ir.Effect)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(effects []ir.Effect)

// Apply calls f(effects).
func (f RendererFunc) Apply(effects []ir.Effect) { f(effects) }

// Journal receives a diagnostic record of every tick.
// Implemented by *store.Store.
type Journal interface {
	BeginSession(ctx context.Context, token string, slots []ir.Slot) error
	RecordTick(ctx context.Context, rec ir.TickRecord) error
}

// ErrNotStarted is returned by Tick before Start (or Mount) succeeded.
var ErrNotStarted = errors.New("engine not started")

// Engine is the single-writer tick pipeline.
//
// Thread-safety model:
//   - Submit(), Dispatch(), Stop(): safe from any goroutine
//   - Tick(), Run(): called from exactly one goroutine
//   - Snapshot(), Focus(): safe from any goroutine; they wait for the
//     current tick to finish
type Engine struct {
	log      *slog.Logger
	renderer Renderer
	journal  Journal
	sessions SessionTokenGenerator
	glyphs   ir.Glyphs
	maxActs  int

	inbox *inbox[ir.Notification]
	clock *Clock

	mu      sync.Mutex // held for the duration of a tick
	records *record.Store
	actions []ir.Action // queued actions, carried across ticks when deferred
	focus   ir.Handle   // committed focus; read by intake of the next tick
	input   ir.Handle   // the input model once created
	slots   []ir.Slot
	session string
	mounted bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithJournal enables per-tick journaling.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithMaxActionsPerTick bounds the mutation phase.
//
// Default: 256 (DefaultMaxActionsPerTick). Zero or negative disables the
// bound. Actions over the bound are carried to the next tick in order, so a
// carried Create gets its model and views one tick later for every full
// batch queued ahead of it.
func WithMaxActionsPerTick(n int) Option {
	return func(e *Engine) {
		e.maxActs = n
	}
}

// WithGlyphs sets the checkmark and deleter texts.
func WithGlyphs(g ir.Glyphs) Option {
	return func(e *Engine) {
		e.glyphs = g
	}
}

// WithSessionGenerator sets the journal session token source.
func WithSessionGenerator(g SessionTokenGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.sessions = g
		}
	}
}

// New creates an engine that delivers effects to r. A nil renderer
// discards effects.
func New(r Renderer, opts ...Option) *Engine {
	if r == nil {
		r = RendererFunc(func([]ir.Effect) {})
	}
	e := &Engine{
		log:      slog.Default(),
		renderer: r,
		sessions: UUIDv7Generator{},
		glyphs:   ir.DefaultGlyphs(),
		maxActs:  DefaultMaxActionsPerTick,
		inbox:    newInbox[ir.Notification](),
		clock:    NewClock(),
		records:  record.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DiscardLogger returns a logger that drops everything. Used by tests,
// replay and the harness.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mount validates the container slots supplied by the UI collaborator.
// Every required slot must appear exactly once.
func (e *Engine) Mount(slots []ir.Slot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mount(slots)
}

func (e *Engine) mount(slots []ir.Slot) error {
	if e.mounted {
		return fmt.Errorf("mount: engine already mounted")
	}
	counts := make(map[ir.Slot]int, len(slots))
	for _, s := range slots {
		counts[s]++
	}
	for _, req := range ir.RequiredSlots {
		if counts[req] != 1 {
			return NewMissingSingletonError(req, counts[req])
		}
	}
	e.slots = append([]ir.Slot(nil), slots...)
	e.mounted = true
	return nil
}

// Start mounts the slots, opens a journal session, creates the input model
// and runs ticks until the bootstrap settles. The input view is focused
// when Start returns.
func (e *Engine) Start(ctx context.Context, slots []ir.Slot) error {
	if err := e.Mount(slots); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	e.session = e.sessions.Generate()
	if e.journal != nil {
		if err := e.journal.BeginSession(ctx, e.session, e.slots); err != nil {
			return fmt.Errorf("start: begin journal session: %w", err)
		}
	}
	e.log.Info("engine starting", "session", e.session, "slots", len(e.slots))

	e.Dispatch(ir.Create{Model: ir.ModelInput})
	if _, err := e.Tick(ctx); err != nil {
		return fmt.Errorf("start: bootstrap tick: %w", err)
	}
	if err := e.Settle(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

// Session returns the journal session token, empty before Start.
func (e *Engine) Session() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Submit queues a notification for the next tick's intake.
// Returns false if the engine has been stopped.
func (e *Engine) Submit(n ir.Notification) bool {
	return e.inbox.Enqueue(n)
}

// Dispatch queues an action directly, bypassing interaction translation.
func (e *Engine) Dispatch(a ir.Action) bool {
	return e.Submit(ir.Dispatch{Action: a})
}

// Pending reports how many actions are carried into the next tick.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.actions)
}

// maxSettleTicks bounds Settle. Carried work converges in one or two ticks;
// hitting the bound means a phase keeps producing actions.
const maxSettleTicks = 64

// Settle runs ticks while actions are carried over and no new input waits.
func (e *Engine) Settle(ctx context.Context) error {
	for i := 0; i < maxSettleTicks; i++ {
		if e.Pending() == 0 {
			return nil
		}
		if _, err := e.Tick(ctx); err != nil {
			return err
		}
	}
	return fmt.Errorf("settle: still %d pending actions after %d ticks", e.Pending(), maxSettleTicks)
}

// Run ticks whenever notifications arrive or carried actions remain.
// Blocks until the context is cancelled or Stop() is called.
//
// ERROR HANDLING: a failing tick is logged and the loop continues. A tick
// always runs to completion, so there is nothing to roll back.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("engine running", "session", e.Session())

	for {
		if e.inbox.Len() > 0 || e.Pending() > 0 {
			if _, err := e.Tick(ctx); err != nil {
				e.log.Error("tick failed", "error", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.log.Info("engine stopping: context cancelled")
			e.inbox.Close()
			return ctx.Err()

		case <-e.inbox.Wait():
			// The signal channel is closed by Stop; drain what is left first.
			if e.inbox.Closed() && e.inbox.Len() == 0 {
				e.log.Info("engine stopping: inbox closed")
				return nil
			}
		}
	}
}

// Stop closes the inbox. Run returns once queued notifications are processed.
func (e *Engine) Stop() {
	e.inbox.Close()
}

// Focus returns the committed focus.
func (e *Engine) Focus() ir.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focus
}

// Snapshot captures the committed record state.
func (e *Engine) Snapshot() ir.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.records.Snapshot(e.clock.Current(), e.focus)
}

// Tick runs one full pass of the pipeline and delivers its effects.
//
// The context is checked before the tick starts and passed to the journal;
// once started a tick always runs to completion.
func (e *Engine) Tick(ctx context.Context) (TickReport, error) {
	if err := ctx.Err(); err != nil {
		return TickReport{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mounted {
		return TickReport{}, ErrNotStarted
	}

	t := newTick(e.clock.Next(), e.focus)
	log := e.log.With("tick", t.n)

	e.intake(t, log)
	e.mutate(t, log)
	e.materialize(t, log)
	e.propagate(t, log)
	res := e.records.Flush()
	t.report.Created = append(t.report.Created, res.Spawned...)
	e.coordinateFocus(t, log)
	tickErr := e.cascade(t, log)

	snap := e.records.Snapshot(t.n, e.focus)
	digest, err := snap.Digest()
	if err != nil {
		return TickReport{}, fmt.Errorf("tick %d: digest: %w", t.n, err)
	}
	t.report.Digest = digest
	t.report.Focus = e.focus
	t.report.Effects = t.effects
	t.report.Deferred = len(e.actions)

	if len(t.effects) > 0 {
		e.renderer.Apply(t.effects)
	}
	e.record(ctx, t, log)

	log.Debug("tick complete",
		"inputs", len(t.inputs),
		"applied", len(t.report.Applied),
		"skipped", len(t.report.Skipped),
		"effects", len(t.effects),
		"focus", e.focus,
	)
	return t.report, tickErr
}

// record writes the tick to the journal. Journal failures are logged, never
// returned: the journal is diagnostics and must not stall the UI.
func (e *Engine) record(ctx context.Context, t *tick, log *slog.Logger) {
	if e.journal == nil {
		return
	}
	rec := ir.TickRecord{
		Session:  e.session,
		Tick:     t.n,
		Inputs:   t.inputs,
		Applied:  t.report.Applied,
		Skipped:  t.report.Skipped,
		Deferred: t.report.Deferred,
		Effects:  len(t.effects),
		Focus:    e.focus,
		Digest:   t.report.Digest,
	}
	if err := e.journal.RecordTick(ctx, rec); err != nil {
		log.Error("journal write failed", "session", e.session, "error", err)
	}
}
