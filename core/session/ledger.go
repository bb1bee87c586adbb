package session

import "time"

// Entry is one accepted scan, kept in submission order for audit purposes.
type Entry struct {
	Code      string    `json:"code"`
	ScannedAt time.Time `json:"scannedAt"`
}

// Ledger is the append-only record of accepted scans for one catalog version.
// Entries are never removed except by Clear, which only happens together with
// a catalog swap or an explicit session clear.
type Ledger struct {
	Entries []Entry `json:"entries"`
}

// Append records an accepted code. Callers must classify first; the ledger
// itself enforces nothing.
func (l *Ledger) Append(code string, at time.Time) {
	l.Entries = append(l.Entries, Entry{Code: code, ScannedAt: at})
}

// Count returns how many times a code has been scanned.
func (l *Ledger) Count(code string) int {
	n := 0
	for _, e := range l.Entries {
		if e.Code == code {
			n++
		}
	}
	return n
}

// Len returns the total number of accepted scans.
func (l *Ledger) Len() int {
	return len(l.Entries)
}

// Codes returns the distinct scanned codes in first-scan order.
func (l *Ledger) Codes() []string {
	seen := make(map[string]struct{}, len(l.Entries))
	codes := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		if _, ok := seen[e.Code]; ok {
			continue
		}
		seen[e.Code] = struct{}{}
		codes = append(codes, e.Code)
	}
	return codes
}

// Counts returns the scan count per code.
func (l *Ledger) Counts() map[string]int {
	counts := make(map[string]int, len(l.Entries))
	for _, e := range l.Entries {
		counts[e.Code]++
	}
	return counts
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.Entries = nil
}
