// Package store provides the authoritative session store implementations
// behind the session.Store interface.
//
// Three backends are available, selected by configuration:
//
//   - memory: a process-local map with lazy TTL expiry. This is the relay
//     hub's default; state lives and dies with the process.
//   - mongo: MongoDB with a native TTL index and optimistic-concurrency
//     updates, giving per-key atomic read-modify-write across processes.
//   - database: MySQL via GORM, serializing updates with row locks inside
//     transactions. Sessions are stored as JSON payloads keyed by code.
//
// All backends treat an expired session as absent on read; background
// deletion (TTL monitor, cleanup sweeps) is an optimization, not the source
// of truth.
package store
