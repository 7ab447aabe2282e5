// Package record implements the record store: a generational arena of
// model and view records.
//
// Every record is tagged structurally as either a *Model or a *View (see
// Entry). Views hold a non-owning back-reference to one model, fixed at
// creation; the store keeps a reverse index from each model to its views so
// propagation and cascade removal never scan the whole arena.
//
// # Tick discipline
//
//   - Spawn/Despawn stage structural edits; Flush commits them
//   - Model setters pulse per-field dirty bits only when a value changes
//   - Created/Dirty/Removed expose this tick's pulses
//   - EndTick clears pulses and recycles freed slots with bumped generations
//
// Lookups of stale handles return *StaleHandleError (errors.Is
// ErrStaleHandle). MustModel and MustView panic with *FaultError and are
// reserved for handles the caller already proved live.
package record
