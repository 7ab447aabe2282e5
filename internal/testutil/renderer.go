package testutil

import (
	"sync"

	"github.com/roach88/mvsync/internal/ir"
)

// RecordingRenderer keeps every effect batch it receives.
//
// Thread-safety: safe for concurrent use via internal mutex.
type RecordingRenderer struct {
	mu      sync.Mutex
	batches [][]ir.Effect
}

// Apply records one batch. Implements engine.Renderer.
func (r *RecordingRenderer) Apply(effects []ir.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := make([]ir.Effect, len(effects))
	copy(batch, effects)
	r.batches = append(r.batches, batch)
}

// Batches returns the recorded batches in delivery order.
func (r *RecordingRenderer) Batches() [][]ir.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]ir.Effect, len(r.batches))
	copy(out, r.batches)
	return out
}

// Effects returns every recorded effect flattened in delivery order.
func (r *RecordingRenderer) Effects() []ir.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ir.Effect
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

// Last returns the most recent batch, or nil.
func (r *RecordingRenderer) Last() []ir.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return nil
	}
	return r.batches[len(r.batches)-1]
}

// Reset forgets every recorded batch.
func (r *RecordingRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = nil
}

// Kinds returns the Kind of every recorded effect, flattened.
func (r *RecordingRenderer) Kinds() []string {
	effects := r.Effects()
	out := make([]string, len(effects))
	for i, e := range effects {
		out[i] = e.Kind()
	}
	return out
}
