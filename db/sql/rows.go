package sql

import (
	"database/sql"
	"strings"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

// rowsReader is the part of *sql.Rows needed to materialize a result set
type rowsReader interface {
	Columns() ([]string, error)
	ColumnTypes() ([]*sql.ColumnType, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// readResultSet drains rows into a db.ResultSet.
// The driver hands TEXT values out as []byte in some cases, they are turned into strings
// unless the declared column type is a BLOB.
func readResultSet(rows rowsReader) (*db.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var blob = make([]bool, len(cols))
	if types, tErr := rows.ColumnTypes(); tErr == nil {
		for i, ct := range types {
			blob[i] = strings.EqualFold(ct.DatabaseTypeName(), "BLOB")
		}
	}

	var rs = &db.ResultSet{Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		var values = make([]interface{}, len(cols))
		var dest = make([]interface{}, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}

		if err = rows.Scan(dest...); err != nil {
			return nil, err
		}

		for i, v := range values {
			if bs, ok := v.([]byte); ok {
				if blob[i] {
					values[i] = append([]byte(nil), bs...)
				} else {
					values[i] = string(bs)
				}
			}
		}

		rs.Rows = append(rs.Rows, values)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rs, nil
}
