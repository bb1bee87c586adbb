// Package utils provides common utility functions for the scan-sync application.
// It includes helpers for coercing loosely-typed spreadsheet values into
// canonical Go types, shared by the catalog and classifier logic.
package utils
