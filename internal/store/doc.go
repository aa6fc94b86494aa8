// Package store provides SQLite-backed durable storage for simulation
// run archives.
//
// The archive is append-only:
//   - Runs: one header row per simulation run with aggregate counters
//   - Results: one row per (agent, statute) application
//
// Ordering uses seq INTEGER (position in the engine's result slice),
// never timestamps, so reading a run back reproduces the evaluation
// order exactly. All writes use ON CONFLICT DO NOTHING, making
// re-archiving a run a no-op rather than an error.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
