// Package store provides SQLite-backed storage for world snapshots.
//
// The store keeps one row per object:
//   - serial: INTEGER PRIMARY KEY
//   - type: the canonical type name
//   - props: the object's properties as canonical JSON TEXT
//
// and an append-only log of imports keyed by a UUIDv7 import id.
//
// # Deterministic Reads
//
// Candidate reads are ordered by serial ASC, so a store and the YAML
// snapshot it was imported from produce identical candidate lists when the
// file lists objects in serial order.
//
// Rendered queries (see internal/querysql) read props through the SQLite
// JSON1 functions; integers stay exact because props never hold floats.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
