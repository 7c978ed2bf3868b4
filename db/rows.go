package db

import (
	"strings"
)

// Row is the result of QueryRow, errors are deferred until Scan is called
type Row interface {
	Scan(dest ...interface{}) error
}

// ResultSet is a fully materialized query result.
// TEXT values are always returned as string, INTEGER as int64, REAL as float64,
// NULL as nil.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

// Len returns the number of rows in the result set
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}

	return len(rs.Rows)
}

// Column returns the values of the named column, nil if there is no such column
func (rs *ResultSet) Column(name string) []interface{} {
	if rs == nil {
		return nil
	}

	var idx = -1
	for i, c := range rs.Columns {
		if strings.EqualFold(c, name) {
			idx = i
			break
		}
	}

	if idx < 0 {
		return nil
	}

	var values = make([]interface{}, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		values = append(values, row[idx])
	}

	return values
}

// Clone returns a deep copy of the row slices, so callers can hand out results
// without sharing backing arrays
func (rs *ResultSet) Clone() *ResultSet {
	if rs == nil {
		return nil
	}

	var c = &ResultSet{Columns: append([]string(nil), rs.Columns...)}
	if rs.Rows == nil {
		return c
	}

	c.Rows = make([][]interface{}, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		c.Rows = append(c.Rows, append([]interface{}(nil), row...))
	}

	return c
}

// String dumps the result set in a log friendly way
func (rs *ResultSet) String() string {
	if rs == nil {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(rs.Columns, " | "))
	for _, row := range rs.Rows {
		sb.WriteString("\n")
		sb.WriteString(DumpValues(row...))
	}

	return sb.String()
}
