// Package source loads tabular records for the table engine.
//
// Every loader returns []Record, one map per row keyed by column name, ready
// to be used as table.Options[Record].Data:
//
//   - [FromCSV] reads a CSV stream with a header row and infers value types.
//   - [FromSQL] runs a query through database/sql (SQLite via modernc.org/sqlite).
//   - [FromPostgres] runs a query through pgx and normalizes pgtype values.
//
// [Nest] turns flat parent/child records into a tree for Options.GetSubRows.
package source

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Record is one row of loaded data.
type Record = map[string]any

// ErrNoHeader is returned by FromCSV for an empty stream.
var ErrNoHeader = errors.New("csv has no header row")

// FromCSV reads r as CSV. The first row names the fields; later rows become
// records with values typed by InferValue. A leading byte order mark is
// dropped and invalid UTF-8 is replaced. Short rows leave the missing fields
// nil.
func FromCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(newTextReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	keys := headerKeys(header)

	var out []Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec := make(Record, len(keys))
		for i, k := range keys {
			if i < len(fields) {
				rec[k] = InferValue(fields[i])
			} else {
				rec[k] = nil
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// headerKeys trims the header names, names blank ones column_N and makes
// duplicates unique with a numeric suffix.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		k := strings.TrimSpace(h)
		if k == "" {
			k = "column_" + strconv.Itoa(i+1)
		}
		seen[k]++
		if n := seen[k]; n > 1 {
			k += "_" + strconv.Itoa(n)
		}
		keys[i] = k
	}
	return keys
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// OpenSQLite opens a SQLite database with the pure Go driver. Use ":memory:"
// for a private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// FromSQL runs query and returns one record per result row. Byte slices are
// converted to strings.
func FromSQL(ctx context.Context, q Querier, query string, args ...any) ([]Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []Record
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = vals[i]
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
