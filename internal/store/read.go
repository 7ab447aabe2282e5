package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// ErrSessionNotFound is returned when a session token is not in the journal.
var ErrSessionNotFound = errors.New("session not found")

// Session summarizes one journaled engine run.
type Session struct {
	Token string
	Slots []ir.Slot
	Ticks int64
}

// Sessions returns every session in the order they were started.
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.token, s.slots, COUNT(t.tick)
		FROM sessions s
		LEFT JOIN ticks t ON t.session = s.token
		GROUP BY s.id
		ORDER BY s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			sess  Session
			slots string
		)
		if err := rows.Scan(&sess.Token, &slots, &sess.Ticks); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sess.Slots, err = unmarshalSlots(slots); err != nil {
			return nil, fmt.Errorf("session %s: %w", sess.Token, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LatestSession returns the most recently started session.
func (s *Store) LatestSession(ctx context.Context) (Session, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrSessionNotFound
	}
	return sessions[len(sessions)-1], nil
}

// Slots returns the slots the session was mounted with.
func (s *Store) Slots(ctx context.Context, token string) ([]ir.Slot, error) {
	var slots string
	err := s.db.QueryRowContext(ctx, `SELECT slots FROM sessions WHERE token = ?`, token).Scan(&slots)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slots of %q: %w", token, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("slots of %q: %w", token, err)
	}
	return unmarshalSlots(slots)
}

// Ticks returns the journaled ticks of a session in tick order, with their
// inputs and actions decoded. Returns an empty slice (not nil) for a
// session with no ticks.
func (s *Store) Ticks(ctx context.Context, token string) ([]ir.TickRecord, error) {
	records, err := s.readTicks(ctx, token)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]int, len(records))
	for i, rec := range records {
		index[rec.Tick] = i
	}
	if err := s.readInputs(ctx, token, records, index); err != nil {
		return nil, err
	}
	if err := s.readActions(ctx, token, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) readTicks(ctx context.Context, token string) ([]ir.TickRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, deferred, effects, focus, digest
		FROM ticks
		WHERE session = ?
		ORDER BY tick ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	records := []ir.TickRecord{}
	for rows.Next() {
		rec := ir.TickRecord{Session: token}
		var focus string
		if err := rows.Scan(&rec.Tick, &rec.Deferred, &rec.Effects, &focus, &rec.Digest); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		if rec.Focus, err = ir.ParseHandle(focus); err != nil {
			return nil, fmt.Errorf("tick %d: %w", rec.Tick, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}
	return records, nil
}

func (s *Store) readInputs(ctx context.Context, token string, records []ir.TickRecord, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, seq, payload
		FROM inputs
		WHERE session = ?
		ORDER BY tick ASC, seq ASC
	`, token)
	if err != nil {
		return fmt.Errorf("query inputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tick, seq int64
			payload   string
		)
		if err := rows.Scan(&tick, &seq, &payload); err != nil {
			return fmt.Errorf("scan input: %w", err)
		}
		n, err := ir.DecodeNotification([]byte(payload))
		if err != nil {
			return fmt.Errorf("tick %d input %d: %w", tick, seq, err)
		}
		i, ok := index[tick]
		if !ok {
			return fmt.Errorf("input %d references missing tick %d", seq, tick)
		}
		records[i].Inputs = append(records[i].Inputs, n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate inputs: %w", err)
	}
	return nil
}

func (s *Store) readActions(ctx context.Context, token string, records []ir.TickRecord, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, seq, payload, status, code, reason
		FROM actions
		WHERE session = ?
		ORDER BY tick ASC, seq ASC
	`, token)
	if err != nil {
		return fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tick, seq                     int64
			payload, status, code, reason string
		)
		if err := rows.Scan(&tick, &seq, &payload, &status, &code, &reason); err != nil {
			return fmt.Errorf("scan action: %w", err)
		}
		a, err := ir.DecodeAction([]byte(payload))
		if err != nil {
			return fmt.Errorf("tick %d action %d: %w", tick, seq, err)
		}
		i, ok := index[tick]
		if !ok {
			return fmt.Errorf("action %d references missing tick %d", seq, tick)
		}
		switch status {
		case statusApplied:
			records[i].Applied = append(records[i].Applied, a)
		case statusSkipped:
			records[i].Skipped = append(records[i].Skipped, ir.SkippedAction{Action: a, Code: code, Reason: reason})
		default:
			return fmt.Errorf("tick %d action %d: unknown status %q", tick, seq, status)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate actions: %w", err)
	}
	return nil
}
