// Package store provides the SQLite-backed tick journal.
//
// The journal is diagnostics only. It is written once per tick and read by
// the replay and trace commands; the engine never restores model data from
// it.
//
// Tables:
//   - sessions: one row per engine start, with the mounted slots
//   - ticks: one row per completed tick (digest, focus, counters)
//   - inputs: notifications drained at intake, in arrival order
//   - actions: actions applied or skipped by the mutator, in queue order
//
// # Ordering
//
// Ticks are keyed by the engine's logical clock, never wall time. Every
// query orders by (tick ASC, seq ASC) so reads are deterministic across
// replays.
//
// # Identity
//
// Input and action rows carry a content-addressed ID computed by
// ir.RecordID from (session, tick, seq, payload). Writes use
// ON CONFLICT DO NOTHING, so recording the same tick twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// The schema is managed by golang-migrate from the embedded migrations
// directory.
package store
