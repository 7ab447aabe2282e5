package engine

import (
	"context"
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// ReplayResult reports the outcome of a replay.
type ReplayResult struct {
	Ticks    int    // ticks replayed
	Diverged bool   // a digest or tick number differed
	Tick     int64  // first divergent tick
	Want     string // journaled digest at Tick
	Got      string // replayed digest at Tick
}

// Replay re-runs journaled ticks on a fresh engine mounted with slots.
// It stops at the first divergence. Options configure the fresh engine
// (glyphs and action budget must match the recorded session).
//
// Replay is a determinism check, not a recovery mechanism. Model data is
// never restored from the journal; a replay builds a fresh engine in memory,
// re-submits each journaled tick's inputs and compares snapshot digests.
//
// Determinism holds because:
//
//   - Handles are allocated from an arena in spawn order, and freed slots
//     are reused only after the tick that freed them, so the same inputs
//     produce the same handles
//   - Ticks are numbered by the logical Clock, never wall time
//   - Intake reads only the focus committed by the previous tick
//   - Snapshot digests use canonical JSON (sorted keys, NFC strings)
//
// The bootstrap Create of the input model travels through the inbox as a
// Dispatch notification, so it is journaled and replayed like any input.
func Replay(ctx context.Context, slots []ir.Slot, records []ir.TickRecord, opts ...Option) (ReplayResult, error) {
	base := []Option{WithLogger(DiscardLogger())}
	e := New(nil, append(base, opts...)...)
	e.journal = nil
	if err := e.Mount(slots); err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	var res ReplayResult
	for _, rec := range records {
		for _, n := range rec.Inputs {
			e.Submit(n)
		}
		rep, err := e.Tick(ctx)
		if err != nil && !IsDanglingBackReference(err) {
			return res, fmt.Errorf("replay tick %d: %w", rec.Tick, err)
		}
		res.Ticks++
		if rep.Tick != rec.Tick || rep.Digest != rec.Digest {
			res.Diverged = true
			res.Tick = rec.Tick
			res.Want = rec.Digest
			res.Got = rep.Digest
			return res, nil
		}
	}
	return res, nil
}
