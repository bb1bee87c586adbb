// Package session implements the inventory reconciliation core: the catalog
// of expected items, the ledger of scanned codes, the scan classifier, and
// the session lifecycle manager.
//
// # Model
//
// A Session binds one Catalog version to one Ledger plus lifecycle metadata
// (six-symbol code, creation time, expiry). The Catalog is immutable once
// published; replacing it resets the Ledger atomically. The Ledger is
// append-only: entries are never removed except by a full clear.
//
// # Scan modes
//
// The scan mode is fixed per catalog version, not per call. A catalog whose
// source declares a quantity column runs the session in multiset mode: a code
// may be scanned once per required unit, where the quota of a code is the sum
// of the required quantities of every catalog row sharing that code. Without
// a quantity column the session runs in set mode and every repeat is a
// duplicate.
//
// # Classifier
//
// Classify is a pure function over a consistent (Catalog, Ledger) snapshot.
// Benign outcomes (duplicate, quota exceeded, surplus) are Decision variants,
// not errors; callers apply the resulting mutation through Manager.SubmitScan
// so the store serializes concurrent writers.
//
// # Manager
//
// Manager implements the session operations (create, get, replace catalog,
// clear, submit scan) on top of a Store, the authoritative keyed store with
// per-key TTL and atomic read-modify-write. Store implementations live in
// core/store.
package session
