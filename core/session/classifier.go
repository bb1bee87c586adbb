package session

// Kind is the outcome of classifying one scan.
type Kind string

const (
	// KindAccepted means the code is expected and under quota; append it.
	KindAccepted Kind = "accepted"
	// KindDuplicate means the code was already scanned (set mode).
	KindDuplicate Kind = "duplicate"
	// KindQuotaExceeded means the code reached its quota (multiset mode).
	KindQuotaExceeded Kind = "quota-exceeded"
	// KindSurplus means the code matches no catalog item. It is still
	// appended; the distinction only matters for reporting.
	KindSurplus Kind = "surplus"
	// KindInvalid means the input was empty or blank; nothing is appended.
	KindInvalid Kind = "invalid-input"
)

// Mutates reports whether a decision of this kind appends to the ledger.
func (k Kind) Mutates() bool {
	return k == KindAccepted || k == KindSurplus
}

// Decision is the classifier verdict for one scan.
type Decision struct {
	Kind Kind `json:"kind"`
	// Code is the canonical form of the scanned input.
	Code string `json:"code"`
	// Count is the scan count for Code after applying the decision.
	Count int `json:"count"`
	// Quota is the catalog quota for Code (zero for surplus codes).
	Quota int `json:"quota"`
	// TotalScanned is the ledger length after applying the decision.
	TotalScanned int `json:"totalScanned"`
}

// Classify decides the outcome of one scanned code against a consistent
// (catalog, ledger) snapshot. It is pure: the ledger is not mutated.
// Rejections in set mode are always duplicates; multiset mode reports
// quota-exceeded once the summed quota for the code is reached.
func Classify(catalog *Catalog, ledger *Ledger, raw string) Decision {
	code := CanonicalCode(raw)
	if code == "" {
		return Decision{Kind: KindInvalid, TotalScanned: ledger.Len()}
	}

	count := ledger.Count(code)
	quota := catalog.Quota(code)

	d := Decision{Code: code, Count: count, Quota: quota, TotalScanned: ledger.Len()}

	switch {
	case quota == 0:
		// Unknown codes are counted once; repeats are plain duplicates.
		if count > 0 {
			d.Kind = KindDuplicate
		} else {
			d.Kind = KindSurplus
		}
	case count < quota:
		d.Kind = KindAccepted
	case catalog.Multiset:
		d.Kind = KindQuotaExceeded
	default:
		d.Kind = KindDuplicate
	}

	if d.Kind.Mutates() {
		d.Count++
		d.TotalScanned++
	}
	return d
}
