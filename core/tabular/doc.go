// Package tabular reads uploaded spreadsheet sources into a neutral table
// representation: an ordered header plus one string map per row.
//
// Two source formats are supported:
//   - CSV via the standard library reader (header row + variable-width rows)
//   - XLSX via excelize (first sheet, first row as header)
//
// The Table type is deliberately dumb. Interpreting columns (which one is the
// code, which one the quantity) belongs to core/session's catalog builder.
package tabular
