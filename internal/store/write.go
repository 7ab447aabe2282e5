package store

import (
	"context"
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// BeginSession registers a journal session and the slots it was mounted
// with. Uses ON CONFLICT(token) DO NOTHING: re-registering a token keeps the
// original slots.
func (s *Store) BeginSession(ctx context.Context, token string, slots []ir.Slot) error {
	if token == "" {
		return fmt.Errorf("begin session: empty token")
	}
	slotsJSON, err := marshalSlots(slots)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, slots)
		VALUES (?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, slotsJSON)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// RecordTick writes one tick with its inputs and actions in a single
// transaction. The session must have been registered with BeginSession
// (foreign key constraint).
//
// Writing the same tick twice is a no-op: every insert uses
// ON CONFLICT DO NOTHING.
func (s *Store) RecordTick(ctx context.Context, rec ir.TickRecord) error {
	inputs, err := inputRows(rec)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", rec.Tick, err)
	}
	actions, err := actionRows(rec)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", rec.Tick, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record tick %d: begin tx: %w", rec.Tick, err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ticks (session, tick, deferred, effects, focus, digest)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session, tick) DO NOTHING
	`, rec.Session, rec.Tick, rec.Deferred, rec.Effects, rec.Focus.String(), rec.Digest)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", rec.Tick, err)
	}

	for _, in := range inputs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inputs (id, session, tick, seq, kind, payload)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, in.id, rec.Session, rec.Tick, in.seq, in.kind, in.payload)
		if err != nil {
			return fmt.Errorf("record tick %d: input %d: %w", rec.Tick, in.seq, err)
		}
	}

	for _, a := range actions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO actions (id, session, tick, seq, kind, target, payload, status, code, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, a.id, rec.Session, rec.Tick, a.seq, a.kind, a.target, a.payload, a.status, a.code, a.reason)
		if err != nil {
			return fmt.Errorf("record tick %d: action %d: %w", rec.Tick, a.seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record tick %d: commit: %w", rec.Tick, err)
	}
	return nil
}
