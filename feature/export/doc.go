// Package export archives finished reconciliation reports to object storage.
//
// Each archived report is one CSV object under reports/<session>/, named by
// its generation timestamp, so repeated exports of the same session never
// overwrite each other. The feature loads only when storage is enabled and
// ensures the target bucket exists at startup.
package export
