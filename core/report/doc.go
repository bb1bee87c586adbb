// Package report generates the three-way discrepancy report (matched,
// missing, surplus) from a session snapshot and serializes it to the CSV
// exchange format shared with the spreadsheet source.
package report
