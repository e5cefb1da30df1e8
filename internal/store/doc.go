// Package store provides SQLite-backed durable storage for character
// snapshots and patches.
//
// The store implements an append-only journal with:
//   - Snapshots: full canonical-JSON snapshot bodies per character
//   - Patches: checksum-stamped change lists between snapshot states
//
// # Critical Patterns
//
// Idempotent writes
//   - UNIQUE(character_id, checksum) on snapshots: re-saving an unchanged
//     state is a no-op
//   - Patch ids are primary keys: re-appending a journaled patch is a no-op
//
// Deterministic ordering
//   - Snapshot ordering uses seq INTEGER (insertion order)
//   - Patch ids are UUIDv7, so ORDER BY id is creation order
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Checksums are computed in internal/document using RFC 8785 canonical
// JSON and SHA-256 with domain separation.
package store
