package session

import (
	"strings"

	"scan-sync/core/tabular"
	"scan-sync/core/utils"
)

// Field is one named cell of a catalog row. Attribute order follows the
// source column order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is one expected inventory item parsed from a catalog row.
type Item struct {
	// Code is the canonical scannable code. May be empty when the source
	// row lacks one; such items can never be matched by a scan.
	Code string `json:"code"`
	// Quantity is the declared required quantity. Zero or negative means
	// "exactly one" (see RequiredUnits).
	Quantity int `json:"quantity"`
	// Attributes holds every source cell in column order, including the
	// code and quantity cells, so reports can echo the original row.
	Attributes []Field `json:"attributes"`
}

// RequiredUnits returns the effective number of scans this item requires.
func (i Item) RequiredUnits() int {
	if i.Quantity > 0 {
		return i.Quantity
	}
	return 1
}

// Catalog is the immutable expected-items list of one session version.
type Catalog struct {
	// Columns is the source header, in order.
	Columns []string `json:"columns"`
	// CodeColumn names the column the codes were taken from.
	CodeColumn string `json:"codeColumn"`
	// QuantityColumn names the quantity column, empty in set mode.
	QuantityColumn string `json:"quantityColumn,omitempty"`
	// Multiset is true when the source declared a quantity column. It is
	// fixed at build time and decides the scan mode for the whole session.
	Multiset bool `json:"multiset"`
	// Items are the expected items in source order.
	Items []Item `json:"items"`
}

// EmptyCatalog returns a catalog with no items, used for relay sessions that
// exist before the host publishes a spreadsheet.
func EmptyCatalog() *Catalog {
	return &Catalog{}
}

// NewCatalog builds a Catalog from a parsed table. The code column is
// cfg.CodeColumn when present in the header, otherwise the first column.
// Multiset mode is enabled iff cfg.QuantityColumn appears in the header.
// A table with no rows yields ErrEmptyCatalog.
func NewCatalog(table *tabular.Table, cfg Config) (*Catalog, error) {
	if table == nil || len(table.Rows) == 0 || len(table.Columns) == 0 {
		return nil, ErrEmptyCatalog
	}

	codeCol := cfg.CodeColumn
	if !containsColumn(table.Columns, codeCol) {
		codeCol = table.Columns[0]
	}

	qtyCol := ""
	if cfg.QuantityColumn != "" && containsColumn(table.Columns, cfg.QuantityColumn) {
		qtyCol = cfg.QuantityColumn
	}

	catalog := &Catalog{
		Columns:        append([]string(nil), table.Columns...),
		CodeColumn:     codeCol,
		QuantityColumn: qtyCol,
		Multiset:       qtyCol != "",
		Items:          make([]Item, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		item := Item{
			Code:       CanonicalCode(row[codeCol]),
			Attributes: make([]Field, 0, len(table.Columns)),
		}
		if qtyCol != "" {
			item.Quantity = utils.ToInt(row[qtyCol])
		}
		for _, name := range table.Columns {
			item.Attributes = append(item.Attributes, Field{Name: name, Value: row[name]})
		}
		catalog.Items = append(catalog.Items, item)
	}

	return catalog, nil
}

// Len returns the number of expected items.
func (c *Catalog) Len() int {
	return len(c.Items)
}

// ItemsByCode returns every item sharing the given canonical code, not just
// the first. Rows may legitimately repeat a code.
func (c *Catalog) ItemsByCode(code string) []Item {
	var matches []Item
	for _, item := range c.Items {
		if item.Code != "" && item.Code == code {
			matches = append(matches, item)
		}
	}
	return matches
}

// Quota returns the scan quota for a code: zero when no row matches, one in
// set mode, and the sum of required units across all matching rows in
// multiset mode.
func (c *Catalog) Quota(code string) int {
	matches := c.ItemsByCode(code)
	if len(matches) == 0 {
		return 0
	}
	if !c.Multiset {
		return 1
	}
	quota := 0
	for _, item := range matches {
		quota += item.RequiredUnits()
	}
	return quota
}

// Table reconstructs the wire/table representation of the catalog.
func (c *Catalog) Table() *tabular.Table {
	table := &tabular.Table{Columns: append([]string(nil), c.Columns...)}
	for _, item := range c.Items {
		row := make(tabular.Row, len(item.Attributes))
		for _, f := range item.Attributes {
			row[f.Name] = f.Value
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// CanonicalCode normalizes a scanned or catalog code to its canonical string
// form: loose values are coerced to string (so numeric and string codes
// compare equal) and surrounding whitespace is dropped.
func CanonicalCode(val any) string {
	return strings.TrimSpace(utils.ToString(val))
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
