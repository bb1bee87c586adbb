package report

import (
	"math"

	"scan-sync/core/session"
)

// Kind is the report bucket discriminator.
type Kind string

const (
	KindMatched Kind = "MATCHED"
	KindMissing Kind = "MISSING"
	KindSurplus Kind = "SURPLUS"
)

// Report is the three-way diff between a catalog and a ledger snapshot.
// Every catalog item lands in exactly one of Matched or Missing.
type Report struct {
	// Matched holds catalog items whose scan count satisfies their quota.
	Matched []session.Item `json:"matched"`
	// Missing holds catalog items scanned below quota, including zero.
	Missing []session.Item `json:"missing"`
	// Surplus holds distinct ledger codes matching no catalog item, in
	// first-scan order.
	Surplus []string `json:"surplus"`
	// Summary aggregates the counts.
	Summary Summary `json:"summary"`
}

// Summary carries the aggregate counts of a report.
type Summary struct {
	TotalItems int `json:"totalItems"`
	Matched    int `json:"matched"`
	Missing    int `json:"missing"`
	Surplus    int `json:"surplus"`
	// Percentage is round(100 * matched / total), zero for empty catalogs.
	Percentage int `json:"percentage"`
}

// Generate computes the diff for a consistent (catalog, ledger) snapshot.
// An item is matched when its code's scan count reaches the code's quota
// (one in set mode, the summed required units in multiset mode). Rows that
// share a code match or miss together, since quota is summed per code.
func Generate(catalog *session.Catalog, ledger *session.Ledger) *Report {
	counts := ledger.Counts()
	r := &Report{}

	for _, item := range catalog.Items {
		if item.Code != "" && counts[item.Code] >= catalog.Quota(item.Code) {
			r.Matched = append(r.Matched, item)
		} else {
			r.Missing = append(r.Missing, item)
		}
	}

	for _, code := range ledger.Codes() {
		if len(catalog.ItemsByCode(code)) == 0 {
			r.Surplus = append(r.Surplus, code)
		}
	}

	r.Summary = Summary{
		TotalItems: catalog.Len(),
		Matched:    len(r.Matched),
		Missing:    len(r.Missing),
		Surplus:    len(r.Surplus),
		Percentage: Percentage(len(r.Matched), catalog.Len()),
	}
	return r
}

// Percentage returns round(100*matched/total), with zero for an empty total.
func Percentage(matched, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}
