package sql

import (
	"github.com/acronis/perfkit/dbopt-bench/db"
)

// Exec executes a statement that doesn't return rows
func (g *sqlGateway) Exec(query string, args ...interface{}) (db.Result, error) {
	res, err := g.rw.execContext(g.ctx, query, args...)
	if err != nil {
		return nil, db.NewStorageError("exec", query, err)
	}

	return res, nil
}

// QueryRow executes a query expected to return at most one row, errors are reported by Scan
func (g *sqlGateway) QueryRow(query string, args ...interface{}) db.Row {
	return &wrappedRow{
		row:            g.rw.queryRowContext(g.ctx, query, args...),
		query:          query,
		logTime:        g.logTime,
		readRowsLogger: g.readRowsLogger,
	}
}

// Fetch executes a query and reads the whole result before returning,
// so the connection is free for the next statement
func (g *sqlGateway) Fetch(query string, args ...interface{}) (*db.ResultSet, error) {
	rows, err := g.rw.queryContext(g.ctx, query, args...)
	if err != nil {
		return nil, db.NewStorageError("query", query, err)
	}
	defer rows.Close()

	rs, err := readResultSet(&wrappedRows{
		rows:           rows,
		logTime:        g.logTime,
		readRowsLogger: g.readRowsLogger,
	})
	if err != nil {
		return nil, db.NewStorageError("fetch", query, err)
	}

	return rs, nil
}
