// Package engine implements the mvsync reactive Model/View sync engine.
//
// The engine owns a record store of model and view records and advances it
// in discrete ticks. Every tick runs five phases in a fixed barrier order:
//
//  1. Intake: drain inbound notifications (pointer, text, key, resize,
//     dispatch) and translate them into actions and focus requests.
//  2. Mutation: apply queued actions in FIFO order, then flush structural
//     edits so later phases see committed records only.
//  3. Materialize and propagate: build view subtrees for models created
//     this tick and push dirty model fields into dependent views. Both read
//     post-flush model state and only write view state.
//  4. Focus: resolve focus requests (last writer wins) and keep at most one
//     view editable.
//  5. Cascade: destroy the views of models removed this tick, clear focus if
//     it pointed at one of them, and end the tick.
//
// ARCHITECTURE:
//
// Single-Writer Tick Loop:
// Notifications may be submitted from any goroutine, but ticks run on
// exactly one. This keeps the pipeline deterministic:
//   - Actions apply in arrival order
//   - Handles are allocated in the same order on replay
//   - Focus set in tick N is first read by intake in tick N+1
//
// Effects produced during a tick are batched and handed to the Renderer once
// the tick completes. An optional Journal receives one TickRecord per tick
// for tracing and replay verification; it is never read back at startup.
//
// ERROR POLICY:
//
// Stale handles and unsupported actions are logged and skipped; the batch
// continues. A missing container slot aborts Start. A view whose model is
// gone after the cascade phase is an invariant violation and is returned
// from Tick as DANGLING_BACK_REFERENCE.
package engine
