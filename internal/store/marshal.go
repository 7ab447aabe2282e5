package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/mvsync/internal/ir"
)

// marshalSlots stores the mounted slots as a JSON array.
func marshalSlots(slots []ir.Slot) (string, error) {
	if slots == nil {
		slots = []ir.Slot{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return "", fmt.Errorf("marshal slots: %w", err)
	}
	return string(data), nil
}

func unmarshalSlots(s string) ([]ir.Slot, error) {
	var slots []ir.Slot
	if err := json.Unmarshal([]byte(s), &slots); err != nil {
		return nil, fmt.Errorf("unmarshal slots: %w", err)
	}
	return slots, nil
}

// inputRow is one journaled notification.
type inputRow struct {
	id      string
	seq     int64
	kind    string
	payload string
}

// actionRow is one journaled action, applied or skipped.
type actionRow struct {
	id      string
	seq     int64
	kind    string
	target  string
	payload string
	status  string
	code    string
	reason  string
}

const (
	statusApplied = "applied"
	statusSkipped = "skipped"
)

// inputRows encodes the inputs of rec. Sequence numbers follow arrival order.
func inputRows(rec ir.TickRecord) ([]inputRow, error) {
	rows := make([]inputRow, 0, len(rec.Inputs))
	for i, n := range rec.Inputs {
		payload, err := ir.EncodeNotification(n)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		id, err := ir.RecordID(ir.DomainInput, rec.Session, rec.Tick, int64(i), payload)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		rows = append(rows, inputRow{id: id, seq: int64(i), kind: n.Kind(), payload: string(payload)})
	}
	return rows, nil
}

// actionRows encodes applied then skipped actions of rec. Skipped actions
// continue the applied sequence so (tick, seq) stays unique.
func actionRows(rec ir.TickRecord) ([]actionRow, error) {
	rows := make([]actionRow, 0, len(rec.Applied)+len(rec.Skipped))
	add := func(a ir.Action, status, code, reason string) error {
		seq := int64(len(rows))
		payload, err := ir.EncodeAction(a)
		if err != nil {
			return fmt.Errorf("action %d: %w", seq, err)
		}
		id, err := ir.RecordID(ir.DomainActionRecord, rec.Session, rec.Tick, seq, payload)
		if err != nil {
			return fmt.Errorf("action %d: %w", seq, err)
		}
		rows = append(rows, actionRow{
			id:      id,
			seq:     seq,
			kind:    a.Kind(),
			target:  a.Target().String(),
			payload: string(payload),
			status:  status,
			code:    code,
			reason:  reason,
		})
		return nil
	}
	for _, a := range rec.Applied {
		if err := add(a, statusApplied, "", ""); err != nil {
			return nil, err
		}
	}
	for _, sk := range rec.Skipped {
		if err := add(sk.Action, statusSkipped, sk.Code, sk.Reason); err != nil {
			return nil, err
		}
	}
	return rows, nil
}
