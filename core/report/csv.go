package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"scan-sync/core/session"
)

// WriteCSV serializes a report to the flat exchange format: a header of
// Kind, Code and the catalog's remaining columns, then one row per matched,
// missing and surplus entry. Matched and missing rows echo the original
// descriptive cells; surplus rows carry only the code.
func WriteCSV(w io.Writer, catalog *session.Catalog, r *Report) error {
	writer := csv.NewWriter(w)

	extra := extraColumns(catalog)
	header := append([]string{"Kind", "Code"}, extra...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	writeItem := func(kind Kind, item session.Item) error {
		row := make([]string, 0, len(header))
		row = append(row, string(kind), item.Code)
		cells := make(map[string]string, len(item.Attributes))
		for _, f := range item.Attributes {
			cells[f.Name] = f.Value
		}
		for _, name := range extra {
			row = append(row, cells[name])
		}
		return writer.Write(row)
	}

	for _, item := range r.Matched {
		if err := writeItem(KindMatched, item); err != nil {
			return fmt.Errorf("failed to write matched row: %w", err)
		}
	}
	for _, item := range r.Missing {
		if err := writeItem(KindMissing, item); err != nil {
			return fmt.Errorf("failed to write missing row: %w", err)
		}
	}
	for _, code := range r.Surplus {
		row := make([]string, len(header))
		row[0] = string(KindSurplus)
		row[1] = code
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write surplus row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Row is one parsed exchange-format row, reduced to its identifying pair.
type Row struct {
	Kind Kind
	Code string
}

// ParseCSV reads the exchange format back into (Kind, Code) pairs. It is the
// inverse of WriteCSV for identification purposes; descriptive columns are
// ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 2 || header[0] != "Kind" || header[1] != "Code" {
		return nil, fmt.Errorf("unexpected report header: %v", header)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		rows = append(rows, Row{Kind: Kind(record[0]), Code: record[1]})
	}
	return rows, nil
}

// extraColumns returns the catalog columns minus the code column, which is
// already carried by the Code field.
func extraColumns(catalog *session.Catalog) []string {
	var extra []string
	for _, name := range catalog.Columns {
		if name == catalog.CodeColumn {
			continue
		}
		extra = append(extra, name)
	}
	return extra
}
