// Package export writes query results to CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/willibrandon/squeal/internal/dispatch"
)

// ErrNoData is returned when the result carries no rows: an error result, the
// no-result state, or an empty row set.
var ErrNoData = errors.New("no data to export")

// Format is the export file format.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "JSON"
	}
	return "CSV"
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".csv"
}

// ParseFormat maps "csv" or "json" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatCSV, fmt.Errorf("unknown export format %q", s)
}

// WriteCSV writes res as CSV and returns the number of data rows written.
// The header is the first row's keys; later rows are projected onto that header.
// Quoting follows RFC 4180: fields holding a comma, quote or newline are quoted
// and embedded quotes are doubled.
func WriteCSV(w io.Writer, res dispatch.Result) (int, error) {
	if !res.HasRows() {
		return 0, ErrNoData
	}

	header := res.Columns()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range res.Rows {
		for i, col := range header {
			v, _ := row.Get(col)
			record[i] = dispatch.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("csv write error: %w", err)
	}
	return len(res.Rows), nil
}

// WriteJSON writes res as an indented array of row objects.
func WriteJSON(w io.Writer, res dispatch.Result) (int, error) {
	if !res.HasRows() {
		return 0, ErrNoData
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Rows); err != nil {
		return 0, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return len(res.Rows), nil
}

// Write dispatches to the writer for f.
func Write(w io.Writer, res dispatch.Result, f Format) (int, error) {
	if f == FormatJSON {
		return WriteJSON(w, res)
	}
	return WriteCSV(w, res)
}

// RowCSV renders one row's values as a single CSV record without a trailing newline.
func RowCSV(row dispatch.Row) (string, error) {
	var b strings.Builder
	cw := csv.NewWriter(&b)
	record := make([]string, 0, row.Len())
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		record = append(record, dispatch.FormatValue(v))
	}
	if err := cw.Write(record); err != nil {
		return "", fmt.Errorf("failed to write row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("csv write error: %w", err)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
