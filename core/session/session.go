package session

import "time"

// Session binds one catalog version to one ledger plus lifecycle metadata.
// The authoritative copy lives in the store; every in-process value is a
// replica that may be stale.
type Session struct {
	// ID is the immutable six-symbol session code.
	ID string `json:"id"`
	// Catalog is the expected-items list of the current version.
	Catalog *Catalog `json:"catalog"`
	// Ledger records accepted scans for the current catalog version.
	Ledger *Ledger `json:"ledger"`
	// CreatedAt is the session creation time.
	CreatedAt time.Time `json:"createdAt"`
	// ExpiresAt is the lazy-expiry deadline, refreshed on every write and
	// monotonic non-decreasing for the life of the session.
	ExpiresAt time.Time `json:"expiresAt"`
	// Participants is the number of currently connected relay members.
	// Zero for poll deployments; maintained by the hub, not persisted
	// meaningfully across restarts.
	Participants int `json:"participants"`
}

// Expired reports whether the session's TTL elapsed at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Touch extends the expiry deadline to now+ttl, never reducing it.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	deadline := now.Add(ttl)
	if deadline.After(s.ExpiresAt) {
		s.ExpiresAt = deadline
	}
}
